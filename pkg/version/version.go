// Package version identifies the build and the protocol revision it
// implements.
package version

import "fmt"

// Version is the release version. Release builds set it with
//
//	-ldflags "-X github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/version.Version=1.2.0"
var Version = "0.1.0-dev"

// Standard is the protocol revision implemented by the engines.
const Standard = "IEEE 1722.1-2013"

// firmwareLen is the size of the ENTITY descriptor firmware_version field.
const firmwareLen = 64

// Firmware returns the string advertised as firmware_version, cut to fit
// the descriptor field.
func Firmware() string {
	s := fmt.Sprintf("%s %s", Version, Standard)
	if len(s) > firmwareLen {
		s = s[:firmwareLen]
	}
	return s
}

// String returns the version line printed by the commands.
func String(command string) string {
	return fmt.Sprintf("%s %s (%s)", command, Version, Standard)
}
