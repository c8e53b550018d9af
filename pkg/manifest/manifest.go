// Package manifest records generated binding snapshots and the fingerprints
// of their documents.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Entry is one generated file of a snapshot.
type Entry struct {
	Name        string `yaml:"name" json:"name"`
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
}

// Snapshot is a generated set of binding documents.
type Snapshot struct {
	Name    string  `yaml:"name" json:"name"`
	Version string  `yaml:"version" json:"version"`
	Dir     string  `yaml:"dir" json:"dir"`
	Root    string  `yaml:"root" json:"root"`
	Files   []Entry `yaml:"files" json:"files"`
}

// Fingerprint returns the fingerprint recorded for a file, or "".
func (s *Snapshot) Fingerprint(name string) string {
	for _, f := range s.Files {
		if f.Name == name {
			return f.Fingerprint
		}
	}
	return ""
}

// Manifest tracks the generated snapshots.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// AddSnapshot records s as the current snapshot. An entry with the same
// name and version is replaced; re-recording the current version keeps the
// previous pointer.
func (m *Manifest) AddSnapshot(s Snapshot) {
	sort.Slice(s.Files, func(i, j int) bool { return s.Files[i].Name < s.Files[j].Name })
	if m.CurrentVersion != "" && m.CurrentVersion != s.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return
		}
	}
	m.Snapshots = append(m.Snapshots, s)
}

// Snapshot returns the latest snapshot recorded for version, or nil.
func (m *Manifest) Snapshot(version string) *Snapshot {
	for i := len(m.Snapshots) - 1; i >= 0; i-- {
		if m.Snapshots[i].Version == version {
			return &m.Snapshots[i]
		}
	}
	return nil
}

// Changed lists the files whose fingerprints differ between two snapshots,
// including files present in only one of them, in name order.
func Changed(previous, current *Snapshot) []string {
	names := map[string]bool{}
	for _, f := range previous.Files {
		names[f.Name] = true
	}
	for _, f := range current.Files {
		names[f.Name] = true
	}
	var out []string
	for name := range names {
		if previous.Fingerprint(name) != current.Fingerprint(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
