package generate

import (
	"context"
	"log/slog"

	"github.com/viant/afs"

	"github.com/cmmoran/bindgen/pkg/bindgen"
)

// Generate renders the bindings described by opts and writes them to
// opts.OutDir.
func Generate(ctx context.Context, opts *bindgen.Options) (*bindgen.Result, error) {
	res, err := bindgen.Generate(ctx, opts)
	if err != nil {
		return res, err
	}
	if err = res.Write(ctx, afs.New(), opts.OutDir); err != nil {
		return res, err
	}
	for _, w := range res.Diagnostics.Warnings {
		slog.Default().Warn(w.String())
	}
	slog.Default().Info("bindings written", "dir", opts.OutDir, "root", res.Root.Name, "files", len(res.Files))
	return res, nil
}
