// Package wire implements the IEEE 1722.1-2013 (AVDECC) wire format used by
// the entity and controller engines.
//
// All multi-octet fields are big-endian and several header fields are
// bit-packed, so this package works on raw byte offsets rather than on a
// generic serialization library.
//
// # Frames
//
// A Frame is a fixed-capacity buffer holding one complete Ethernet frame
// (destination MAC, source MAC, ethertype, AVTPDU). Writes through the
// cursor (Put*) or at an offset (Set*) never grow the buffer: when they
// would overflow, they return false and leave the frame unchanged. Reads
// (Octet, Doublet, ...) never look past the frame's current length.
//
// # AVTPDU layout
//
// Every AVDECC PDU starts with the 12-octet common control header:
//
//	octet 0      cd(1) | subtype(7)          0xFA ADP, 0xFB AECP, 0xFC ACMP
//	octet 1      sv(1) | version(3) | message_type(4)
//	octets 2-3   status(5) | control_data_length(11)
//	octets 4-11  stream_id / target_entity_id / entity_id
//
// control_data_length counts the octets that follow this header.
//
// # Parsing
//
// ParseAEM, ParseAA and ParseACMP return (header, ok). ok is false for
// anything that is not a well-formed PDU of that kind; callers ignore such
// frames silently, since most traffic on the AVDECC multicast group is not
// addressed to the local entity.
package wire
