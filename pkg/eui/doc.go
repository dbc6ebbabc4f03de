// Package eui implements the fixed-width IEEE extended unique identifiers
// used throughout AVDECC: EUI-48 for MAC addresses and EUI-64 for entity,
// entity model and stream identifiers.
//
// Both types are big-endian byte arrays, comparable with == and usable as
// map keys. The all-0xFF value is a sentinel meaning "unset"; it compares
// like any other value, so code that needs to know whether a field holds a
// real identifier calls IsSet or IsUnset rather than checking for zero.
package eui
