// Package bindgen runs the binding generator end to end: it loads class
// information and customizations, builds the binding model, renders the
// documents and writes them out.
package bindgen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/classinfo/javasrc"
	"github.com/cmmoran/bindgen/internal/custom"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/generator"
	"github.com/cmmoran/bindgen/internal/render"
)

// File is one rendered output file.
type File struct {
	Name        string `yaml:"name" json:"name"`
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
	Content     []byte `yaml:"-" json:"-"`
}

// Result is the outcome of a generation run.
type Result struct {
	Root        *binding.Document
	Documents   []*binding.Document
	Details     []*generator.MappingDetail
	Files       []File
	Diagnostics *diagnostic.Diagnostics
}

// Generate loads the inputs named by opts and renders the binding documents.
// Nothing is written; see Result.Write.
func Generate(ctx context.Context, opts *Options) (*Result, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	fs := afs.New()
	log := slog.Default().With("component", "bindgen")

	provider, err := loadProvider(ctx, fs, opts)
	if err != nil {
		return nil, err
	}
	global, err := loadCustomizations(ctx, fs, opts.Customizations)
	if err != nil {
		return nil, err
	}

	diags := diagnostic.New(log)
	session, err := generator.NewSession(provider, global, diags)
	if err != nil {
		return nil, err
	}
	root, err := session.Generate(opts.Roots, opts.RootName)
	if err != nil {
		return &Result{Diagnostics: diags}, err
	}

	res := &Result{
		Root:        root,
		Documents:   session.Bindings().Documents(),
		Details:     session.Details(),
		Diagnostics: diags,
	}
	for _, doc := range res.Documents {
		data, err := render.XML(doc)
		if err != nil {
			return nil, err
		}
		if err := res.add(doc.Name, data); err != nil {
			return nil, err
		}
	}
	if opts.GoPackage != "" {
		data, err := render.GoDetails(opts.GoPackage, res.Details)
		if err != nil {
			return nil, err
		}
		if err := res.add(opts.GoFile, data); err != nil {
			return nil, err
		}
	}
	log.Info("documents rendered", "files", len(res.Files), "warnings", len(diags.Warnings))
	return res, nil
}

func (r *Result) add(name string, data []byte) error {
	fp, err := render.Fingerprint(data)
	if err != nil {
		return fmt.Errorf("fingerprint %s: %w", name, err)
	}
	r.Files = append(r.Files, File{Name: name, Fingerprint: fp, Content: data})
	return nil
}

// Write uploads every rendered file below outDir.
func (r *Result) Write(ctx context.Context, fs afs.Service, outDir string) error {
	if fs == nil {
		fs = afs.New()
	}
	for _, f := range r.Files {
		dest := url.Join(outDir, f.Name)
		if err := fs.Upload(ctx, dest, 0o644, bytes.NewReader(f.Content)); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		slog.Default().Log(ctx, slog.Level(-8), "wrote file", "url", dest, "fingerprint", f.Fingerprint)
	}
	return nil
}

func loadProvider(ctx context.Context, fs afs.Service, opts *Options) (classinfo.Provider, error) {
	var chain classinfo.Chain
	for _, u := range opts.Classes {
		data, err := fs.DownloadWithURL(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("read class descriptions %s: %w", u, err)
		}
		p, err := classinfo.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}
		chain = append(chain, p)
	}
	for _, dir := range opts.Sources {
		p, err := javasrc.Load(ctx, fs, dir)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return chain, nil
}

func loadCustomizations(ctx context.Context, fs afs.Service, u string) (*custom.Global, error) {
	if u == "" {
		return custom.Load(nil)
	}
	data, err := fs.DownloadWithURL(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("read customizations %s: %w", u, err)
	}
	g, err := custom.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}
	return g, nil
}
