// Command avdecc-log views and analyzes AVDECC protocol log files.
//
// Log files are written by avdecc-sim and avdecc-replay when run with
// --protocol-log.
//
// Usage:
//
//	avdecc-log <command> [flags] <file.alog>
//
// Examples:
//
//	# View all events
//	avdecc-log view sim.alog
//
//	# View only ACMP messages
//	avdecc-log view --protocol acmp sim.alog
//
//	# Export to CSV
//	avdecc-log export --format csv -o sim.csv sim.alog
//
//	# Keep one entity's events
//	avdecc-log filter --entity-id 00:1b:92:ff:fe:00:00:01 -o box.alog sim.alog
//
//	# Show statistics
//	avdecc-log stats sim.alog
package main

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/cmd/avdecc-log/commands"

func main() {
	commands.Execute()
}
