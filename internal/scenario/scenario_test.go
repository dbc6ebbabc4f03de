package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadDirectory("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	r := NewRunner(nil)
	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			res := r.Run(sc)
			assert.True(t, res.Passed, "failures:\n%s", strings.Join(res.Failures(), "\n"))
			assert.Len(t, res.Steps, len(sc.Steps))
		})
	}
}

func TestRunReportsEveryFailure(t *testing.T) {
	sc, err := Parse([]byte(`
id: SC-FAIL
entities:
  - name: box
    entity_id: "00:1b:92:ff:fe:00:00:01"
    mac: "00:1b:92:00:00:01"
controllers:
  - name: a
    entity_id: "00:1b:92:ff:fe:00:0a:01"
    mac: "02:00:00:00:00:0a"
steps:
  - action: send
    params: {command: acquire}
    expect: {status: ENTITY_LOCKED, owner: b}
  - action: teleport
  - action: send
    params: {command: release}
    expect: {status: SUCCESS, owner: none, color: blue}
`))
	require.NoError(t, err)

	res := NewRunner(nil).Run(sc)
	assert.False(t, res.Passed)
	require.Len(t, res.Steps, 3)

	require.Error(t, res.Steps[0].Err)
	assert.Contains(t, res.Steps[0].Err.Error(), "owner:")
	assert.Contains(t, res.Steps[0].Err.Error(), "status:")
	assert.ErrorContains(t, res.Steps[1].Err, `unknown action "teleport"`)
	assert.ErrorContains(t, res.Steps[2].Err, `unknown expectation "color"`)
	assert.Len(t, res.Failures(), 3)
}

func TestRunSetupError(t *testing.T) {
	sc, err := Parse([]byte(`
id: SC-BAD
entities:
  - name: box
    mac: "00:1b:92:00:00:01"
steps:
  - action: check
`))
	require.NoError(t, err)

	res := NewRunner(nil).Run(sc)
	assert.False(t, res.Passed)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "entity box")
	assert.Empty(t, res.Steps)
}

func TestCustomChecker(t *testing.T) {
	sc, err := Parse([]byte(`
id: SC-CUSTOM
controllers:
  - name: a
    entity_id: "00:1b:92:ff:fe:00:0a:01"
    mac: "02:00:00:00:00:0a"
steps:
  - action: advance
    params: {ms: 5}
    expect: {now: 5}
`))
	require.NoError(t, err)

	r := NewRunner(nil)
	r.RegisterChecker("now", func(st *State, _ map[string]any, expected any) error {
		if int(st.clock.TimeMs()) != expected {
			return mismatch(expected, st.clock.TimeMs())
		}
		return nil
	})
	res := r.Run(sc)
	assert.True(t, res.Passed, strings.Join(res.Failures(), "\n"))
}

func TestParamInt(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"missing", nil, 7, false},
		{"int", 3, 3, false},
		{"hex string", "0x10", 16, false},
		{"decimal string", "12", 12, false},
		{"garbage", "twelve", 0, true},
		{"bool", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{}
			if tt.value != nil {
				params["v"] = tt.value
			}
			got, err := paramInt(params, "v", 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
