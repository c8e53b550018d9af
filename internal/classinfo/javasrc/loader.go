package javasrc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/cmmoran/bindgen/internal/classinfo"
)

// Load walks location for .java files and parses each into a Static
// provider. Files are parsed in name order so later duplicates win
// deterministically.
func Load(ctx context.Context, fs afs.Service, location string) (classinfo.Static, error) {
	if fs == nil {
		fs = afs.New()
	}
	var sources []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !strings.HasPrefix(info.Name(), "."), nil
		}
		if strings.HasSuffix(info.Name(), ".java") {
			sources = append(sources, url.Join(url.Join(baseURL, parent), info.Name()))
		}
		return true, nil
	}
	if err := fs.Walk(ctx, location, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", location, err)
	}
	sort.Strings(sources)

	log := slog.Default().With("component", "javasrc")
	out := classinfo.Static{}
	for _, src := range sources {
		data, err := fs.DownloadWithURL(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		infos, err := ParseSource(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		for _, ci := range infos {
			out.Add(ci)
		}
		log.Log(ctx, slog.LevelDebug-4, "parsed source", "url", src, "classes", len(infos))
	}
	return out, nil
}
