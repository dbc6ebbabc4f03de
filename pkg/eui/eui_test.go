package eui

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsetSentinel(t *testing.T) {
	if !Unset64().IsUnset() {
		t.Error("Unset64().IsUnset() = false, want true")
	}
	if Unset64().IsSet() {
		t.Error("Unset64().IsSet() = true, want false")
	}
	if !Unset48().IsUnset() {
		t.Error("Unset48().IsUnset() = false, want true")
	}

	// The zero value is a real identifier, not "unset".
	var zero Eui64
	if !zero.IsSet() {
		t.Error("zero Eui64 should count as set")
	}
	if !zero.IsZero() {
		t.Error("zero Eui64 IsZero() = false")
	}
}

func TestParseEui64(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Eui64
		wantErr bool
	}{
		{"Colons", "00:1b:92:ff:fe:01:02:03", Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x01, 0x02, 0x03}, false},
		{"Dashes", "00-1B-92-FF-FE-01-02-03", Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x01, 0x02, 0x03}, false},
		{"Hex", "0x001b92fffe010203", Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x01, 0x02, 0x03}, false},
		{"Short", "00:1b:92", Unset64(), true},
		{"BadDigit", "zz:1b:92:ff:fe:01:02:03", Unset64(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEui64(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEui64(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEui64(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEui48RoundTrip(t *testing.T) {
	mac, err := ParseEui48("91:e0:f0:01:00:00")
	require.NoError(t, err)
	assert.Equal(t, "91:e0:f0:01:00:00", mac.String())
	assert.Equal(t, uint64(0x91e0f0010000), mac.Uint64())
	assert.Equal(t, mac, Eui48FromUint64(mac.Uint64()))
}

func TestOrdering(t *testing.T) {
	ids := []Eui64{
		Eui64FromUint64(3),
		Unset64(),
		Eui64FromUint64(1),
		Eui64FromUint64(2),
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })

	assert.Equal(t, Eui64FromUint64(1), ids[0])
	assert.Equal(t, Eui64FromUint64(3), ids[2])
	assert.Equal(t, Unset64(), ids[3], "unset sentinel sorts last")

	set := map[Eui64]bool{Eui64FromUint64(7): true}
	assert.True(t, set[Eui64FromUint64(7)])
}

func TestFromBytes(t *testing.T) {
	_, ok := Eui64FromBytes([]byte{1, 2, 3})
	assert.False(t, ok)

	e, ok := Eui48FromBytes([]byte{1, 2, 3, 4, 5, 6, 7})
	require.True(t, ok)
	assert.Equal(t, Eui48{1, 2, 3, 4, 5, 6}, e)
}

func TestTextMarshaling(t *testing.T) {
	var e Eui64
	require.NoError(t, e.UnmarshalText([]byte("70:b3:d5:ed:c0:00:00:01")))
	text, err := e.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "70:b3:d5:ed:c0:00:00:01", string(text))

	var m Eui48
	assert.Error(t, m.UnmarshalText([]byte("nope")))
}

func TestEui64FromMAC(t *testing.T) {
	mac := Eui48{0x00, 0x1b, 0x92, 0x01, 0x02, 0x03}
	assert.Equal(t, Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x01, 0x02, 0x03}, Eui64FromMAC(mac, 0))
}
