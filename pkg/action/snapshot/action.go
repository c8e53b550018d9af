package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/bindgen/pkg/action/generate"
	"github.com/cmmoran/bindgen/pkg/bindgen"
	"github.com/cmmoran/bindgen/pkg/manifest"
)

// Generate writes a snapshot of the current bindings below
// opts.OutDir/<version> and records it in the manifest. It returns the
// snapshot directory.
func Generate(ctx context.Context, opts *bindgen.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	if snapshotVersion == "" {
		return "", fmt.Errorf("snapshot version is empty")
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	snapOpts := *opts
	snapOpts.OutDir = filepath.Clean(filepath.Join(opts.OutDir, snapshotVersion))
	res, err := generate.Generate(ctx, &snapOpts)
	if err != nil {
		return "", err
	}

	s := manifest.Snapshot{Name: snapshotName, Version: snapshotVersion, Dir: snapOpts.OutDir, Root: res.Root.Name}
	for _, f := range res.Files {
		s.Files = append(s.Files, manifest.Entry{Name: f.Name, Fingerprint: f.Fingerprint})
	}
	m.AddSnapshot(s)

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}
	return snapOpts.OutDir, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshots, and returns a textual diff of every document that changed.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	current := m.Snapshot(m.CurrentVersion)
	previous := m.Snapshot(m.PreviousVersion)
	if current == nil || previous == nil {
		return "", fmt.Errorf("snapshots not found in manifest")
	}

	var b strings.Builder
	for _, name := range manifest.Changed(previous, current) {
		before, err := readOptional(filepath.Join(previous.Dir, name))
		if err != nil {
			return "", fmt.Errorf("read previous snapshot: %w", err)
		}
		after, err := readOptional(filepath.Join(current.Dir, name))
		if err != nil {
			return "", fmt.Errorf("read current snapshot: %w", err)
		}
		fmt.Fprintf(&b, "--- %s\n%s", name, cmp.Diff(before, after))
	}
	return b.String(), nil
}

// readOptional reads a file that may be absent from one snapshot.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	return string(data), err
}
