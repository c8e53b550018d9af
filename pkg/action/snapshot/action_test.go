package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/bindgen/pkg/bindgen"
)

const classesYAML = `
classes:
  - name: com.example.PurchaseOrder
    instantiable: true
    fields:
      - {name: orderId, type: java.lang.String, private: true}
`

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes.yaml")
	custom := filepath.Join(dir, "custom.yaml")
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(classes, []byte(classesYAML), 0o644))
	require.NoError(t, os.WriteFile(custom, []byte("name_style: camel-case\n"), 0o644))

	opts := bindgen.NewOptions(
		bindgen.WithClasses(classes),
		bindgen.WithCustomizations(custom),
		bindgen.WithRoots("com.example.PurchaseOrder"),
		bindgen.WithOutDir(filepath.Join(dir, "out")),
	)

	v1, err := Generate(ctx, opts, manifestPath, "bindings", "v1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "v1"), v1)
	_, err = os.Stat(filepath.Join(v1, "binding.xml"))
	require.NoError(t, err)

	_, err = DiffCurrentWithPrevious(manifestPath)
	require.Error(t, err, "only one snapshot recorded")

	require.NoError(t, os.WriteFile(custom, []byte("name_style: hyphens\n"), 0o644))
	_, err = Generate(ctx, opts, manifestPath, "bindings", "v2")
	require.NoError(t, err)

	m, err := List(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "v2", m.CurrentVersion)
	assert.Equal(t, "v1", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
	assert.NotEqual(t, m.Snapshots[0].Fingerprint("binding.xml"), m.Snapshots[1].Fingerprint("binding.xml"))

	diff, err := DiffCurrentWithPrevious(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- binding.xml")
	assert.Contains(t, diff, "purchaseOrder")
	assert.Contains(t, diff, "purchase-order")
}
