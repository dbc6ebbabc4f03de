// Package log records AVDECC protocol events.
//
// Every frame an entity or controller sends or receives can be captured
// twice: once as raw bytes (LayerFrame) and once as a decoded AEM, Address
// Access or ACMP header (LayerMessage). The engines add ownership, lock,
// registration and connection transitions plus command timeouts
// (LayerEngine). A Recorder stamps each event with the session, role,
// entity id and protocol tick before handing it to a Logger.
//
// Loggers:
//
//	fl, _ := log.NewFileLogger("entity.alog")         // CBOR event file
//	console := log.NewSlogAdapter(slog.Default())     // errors at warn, timeouts at info
//	cfg.ProtocolLogger = log.NewMultiLogger(fl, console)
//
// Recorded files are read back with NewFilteredReader or Each and are the
// input of the avdecc-log tool. Operational logging stays on slog; this
// package is the machine-readable trace.
package log
