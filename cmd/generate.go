package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/bindgen/pkg/action/generate"
	"github.com/cmmoran/bindgen/pkg/bindgen"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

// addFlags adds the generation flags to fs.
func addFlags(fs *pflag.FlagSet) {
	defaults := bindgen.NewOptions()
	fs.StringSliceP("classes", "c", nil, "YAML class description file(s)")
	fs.StringSliceP("sources", "s", nil, "Java source directory(ies) to read classes from")
	fs.StringP("customizations", "C", "", "YAML customizations file")
	fs.StringSliceP("roots", "r", nil, "fully qualified root class(es)")
	fs.StringP("root-name", "n", defaults.RootName, "file name of the root binding document")
	fs.StringP("output-directory", "o", defaults.OutDir, "directory to write binding documents to")
	fs.String("go-package", "", "render a Go lookup table of mapping details into this package")
	fs.String("go-file", defaults.GoFile, "file name of the Go lookup table")
}

var optionKeys = map[string]string{
	"classes":          "bindgen.classes",
	"sources":          "bindgen.sources",
	"customizations":   "bindgen.customizations",
	"roots":            "bindgen.roots",
	"root-name":        "bindgen.root_name",
	"output-directory": "bindgen.out_dir",
	"go-package":       "bindgen.go_package",
	"go-file":          "bindgen.go_file",
}

// loadOptions binds the flags of the running command to their keys below
// "bindgen", so config files and the environment can supply them too, and
// reads the options back. Explicitly set flags win.
func loadOptions(fs *pflag.FlagSet) (*bindgen.Options, error) {
	for flag, key := range optionKeys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return &bindgen.Options{
		Classes:        viper.GetStringSlice("bindgen.classes"),
		Sources:        viper.GetStringSlice("bindgen.sources"),
		Customizations: viper.GetString("bindgen.customizations"),
		Roots:          viper.GetStringSlice("bindgen.roots"),
		RootName:       viper.GetString("bindgen.root_name"),
		OutDir:         viper.GetString("bindgen.out_dir"),
		GoPackage:      viper.GetString("bindgen.go_package"),
		GoFile:         viper.GetString("bindgen.go_file"),
	}, nil
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the bindgen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate bindings",
		Long:  "Generate XML binding documents for the classes reachable from the root classes",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c.Flags())
			if err != nil {
				return err
			}
			options.Roots = append(options.Roots, args...)
			_, err = generate.Generate(c.Context(), options)
			return err
		},
	}
	addFlags(generateCmd.Flags())
	return generateCmd
}
