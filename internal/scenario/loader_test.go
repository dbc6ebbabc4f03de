package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
)

func TestParseEntityDefaults(t *testing.T) {
	sc, err := Parse([]byte(`
id: SC-1
entities:
  - name: box
    entity_id: "00:1b:92:ff:fe:00:00:01"
    mac: "00:1b:92:00:00:01"
    listeners: 2
steps:
  - action: check
`))
	require.NoError(t, err)
	require.Len(t, sc.Entities, 1)

	e := sc.Entities[0]
	assert.Equal(t, "box", e.Name)
	assert.Equal(t, eui.Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x00, 0x00, 0x01}, e.EntityID)
	assert.Equal(t, 2, e.Listeners)

	def := config.Default()
	assert.Equal(t, def.CommandTimeoutMs, e.CommandTimeoutMs)
	assert.Equal(t, def.LockTimeoutMs, e.LockTimeoutMs)
	assert.Equal(t, def.MaxRegisteredControllers, e.MaxRegisteredControllers)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "id: [", "failed to parse YAML"},
		{"no id", "steps:\n  - action: check\n", "scenario ID is required"},
		{"no steps", "id: SC-1\n", "at least one step"},
		{
			"duplicate name",
			"id: SC-1\nentities:\n  - name: x\ncontrollers:\n  - name: x\nsteps:\n  - action: check\n",
			"controller names must be unique",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSetsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: no id\n"), 0o600))

	_, err := Load(path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.File)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirectorySorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		body := "id: " + name + "\nsteps:\n  - action: check\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o700))

	got, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.yml", got[0].ID)
	assert.Equal(t, "b.yaml", got[1].ID)
}
