package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirmware(t *testing.T) {
	assert.Equal(t, Version+" "+Standard, Firmware())
}

func TestFirmwareIsTruncated(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = strings.Repeat("9", 100)
	assert.Len(t, Firmware(), firmwareLen)
}

func TestString(t *testing.T) {
	assert.Equal(t, "avdecc-sim "+Version+" (IEEE 1722.1-2013)", String("avdecc-sim"))
}
