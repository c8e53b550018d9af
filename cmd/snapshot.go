package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/bindgen/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "manage binding snapshots",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "bindgen-manifest.yaml", "snapshot manifest file")

	var name, ver string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "generate bindings into a versioned snapshot",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c.Flags())
			if err != nil {
				return err
			}
			options.Roots = append(options.Roots, args...)
			dir, err := snapshot.Generate(c.Context(), options, manifestPath, name, ver)
			if err != nil {
				return err
			}
			c.Println(dir)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "bindings", "snapshot name")
	createCmd.Flags().StringVar(&ver, "version", "", "snapshot version")
	_ = createCmd.MarkFlagRequired("version")
	addFlags(createCmd.Flags())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Snapshots {
				marker := " "
				if s.Version == m.CurrentVersion {
					marker = "*"
				}
				c.Printf("%s %s %s %s (%d files)\n", marker, s.Name, s.Version, s.Dir, len(s.Files))
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			c.Print(diff)
			return nil
		},
	}

	snapshotCmd.AddCommand(createCmd, listCmd, diffCmd)
	return snapshotCmd
}
