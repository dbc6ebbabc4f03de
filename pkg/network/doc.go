// Package network defines the Ethernet collaborator consumed by the AVDECC
// engines and provides in-process implementations of it.
//
// The engines never touch a socket. They poll a Port for received frames,
// hand it frames to transmit, and read the millisecond clock from it. Raw
// socket backends live outside this module; what is here is enough to run
// entities and controllers against each other and against captures:
//
//   - Bus: an in-memory Ethernet segment with a manual clock. Every BusPort
//     attached to it receives the frames addressed to its MAC, to a
//     multicast address, or to the broadcast address.
//   - CapturePort: wraps a Port and writes every frame that crosses it to a
//     pcap file.
//   - ReplayPort: plays the AVDECC frames of a pcap file back as received
//     frames and collects what the engine sends in response.
//   - LoggingPort: wraps a Port and records every frame as protocol log
//     events.
//
// # Time
//
// TimeMs is a wrapping uint32 millisecond counter. Consumers compare times
// only through pkg/timeout.
package network
