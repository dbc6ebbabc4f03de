// Command avdecc-replay plays a pcap capture of AVDECC traffic into a
// simulated entity and reports what the entity answered.
//
// The capture clock drives the entity, so acquire arbitration and lock
// expiry happen at the captured times. Frames the entity transmits can be
// written to a new capture.
//
// Usage:
//
//	avdecc-replay -config entity.yaml -in traffic.pcap [flags]
//
// Flags:
//
//	-config string        Entity configuration file (yaml or toml)
//	-env string           Environment file loaded before the configuration (default ".env")
//	-in string            Capture to replay
//	-out string           Capture to write the entity's frames to
//	-tail-ms int          Milliseconds to run after the last frame (default 1000)
//	-protocol-log string  Protocol log file (.alog)
//	-log-level string     Log level: debug, info, warn, error
//	-version              Print the version and exit
//
// Examples:
//
//	# Replay a controller session against a configured entity
//	avdecc-replay -config speaker.yaml -in session.pcap -out answers.pcap
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/version"
)

// Options holds the command line.
type Options struct {
	ConfigFile  string
	EnvFile     string
	In          string
	Out         string
	TailMs      uint
	ProtocolLog string
	LogLevel    string
	ShowVersion bool
}

var opts Options

func init() {
	flag.BoolVar(&opts.ShowVersion, "version", false, "Print the version and exit")
	flag.StringVar(&opts.ConfigFile, "config", "", "Entity configuration file (yaml or toml)")
	flag.StringVar(&opts.EnvFile, "env", ".env", "Environment file loaded before the configuration")
	flag.StringVar(&opts.In, "in", "", "Capture to replay")
	flag.StringVar(&opts.Out, "out", "", "Capture to write the entity's frames to")
	flag.UintVar(&opts.TailMs, "tail-ms", 1000, "Milliseconds to run after the last frame")
	flag.StringVar(&opts.ProtocolLog, "protocol-log", "", "Protocol log file (.alog)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()
	if opts.ShowVersion {
		fmt.Println(version.String("avdecc-replay"))
		return
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "avdecc-replay: %v\n", err)
		os.Exit(1)
	}
}

func run(o Options) error {
	if o.ConfigFile == "" || o.In == "" {
		return fmt.Errorf("-config and -in are required")
	}
	if err := config.LoadEnvFile(o.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.ProtocolLog != "" {
		cfg.ProtocolLog = o.ProtocolLog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	port, err := network.OpenReplay(o.In, cfg.MAC)
	if err != nil {
		return err
	}
	logger.Info("capture loaded", "path", o.In, "frames", port.Len(), "skipped", port.Skipped())

	ec := service.EntityConfig{File: cfg, Logger: logger}
	var wrap func(network.Port) network.Port
	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return err
		}
		defer fl.Close()
		ec.ProtocolLogger = fl
		ec.SessionID = log.NewSessionID()
		wrap = func(p network.Port) network.Port {
			return network.NewLoggingPort(p, &log.Recorder{
				Logger:    fl,
				SessionID: ec.SessionID,
				Role:      log.RoleEntity,
				EntityID:  cfg.EntityID,
			})
		}
		logger.Info("protocol log", "path", fl.Path(), "session", ec.SessionID)
	}

	res, err := Replay(port, wrap, ec, uint32(o.TailMs))
	if err != nil {
		return err
	}
	res.Print(os.Stdout)

	if o.Out != "" {
		f, err := os.Create(o.Out)
		if err != nil {
			return err
		}
		if err := network.WriteCapture(f, res.Sent); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("capture written", "path", o.Out, "frames", len(res.Sent))
	}
	return nil
}
