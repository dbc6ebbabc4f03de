// Command avdecc-sim runs a simulated AVDECC entity on an in-memory bus
// together with an interactive controller.
//
// Each entity is described by a YAML or TOML configuration file (see
// pkg/config). Without one a demo pair is simulated: a microphone entity
// with one talker and a speaker entity with one listener and a gain
// control.
//
// Usage:
//
//	avdecc-sim [flags]
//
// Flags:
//
//	-config string          Comma separated entity configuration files (.yaml, .yml, .toml)
//	-env string             Environment file read before the configuration (default ".env")
//	-controller-id string   Controller entity id
//	-controller-mac string  Controller MAC address
//	-log-level string       Override the configured log level
//	-protocol-log string    Override the configured protocol log path
//	-capture string         Override the configured pcap capture path
//	-version                Print the version and exit
//
// Examples:
//
//	# Simulate the demo entity
//	avdecc-sim
//
//	# Simulate two configured entities, logging protocol events
//	avdecc-sim -config stagebox.yaml,amp.toml -protocol-log sim.alog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/cmd/avdecc-sim/interactive"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/version"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Options holds the command line.
type Options struct {
	ConfigFile    string
	EnvFile       string
	ControllerID  string
	ControllerMAC string
	LogLevel      string
	ProtocolLog   string
	Capture       string
	ShowVersion   bool
}

var opts Options

func init() {
	flag.BoolVar(&opts.ShowVersion, "version", false, "Print the version and exit")
	flag.StringVar(&opts.ConfigFile, "config", "", "Comma separated entity configuration files (.yaml, .yml, .toml)")
	flag.StringVar(&opts.EnvFile, "env", ".env", "Environment file read before the configuration")
	flag.StringVar(&opts.ControllerID, "controller-id", "00:1b:92:ff:fe:00:c0:01", "Controller entity id")
	flag.StringVar(&opts.ControllerMAC, "controller-mac", "02:00:00:00:c0:01", "Controller MAC address")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Override the configured log level")
	flag.StringVar(&opts.ProtocolLog, "protocol-log", "", "Override the configured protocol log path")
	flag.StringVar(&opts.Capture, "capture", "", "Override the configured pcap capture path")
}

func main() {
	flag.Parse()
	if opts.ShowVersion {
		fmt.Println(version.String("avdecc-sim"))
		return
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "avdecc-sim: %v\n", err)
		os.Exit(1)
	}
}

// demoConfigs describes the entities simulated without configuration files.
func demoConfigs() []config.Config {
	mic := config.Default()
	mic.EntityID = eui.Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x00, 0x00, 0x01}
	mic.MAC = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x01}
	mic.EntityModelID = eui.Eui64{0x00, 0x1b, 0x92, 0x00, 0x00, 0x00, 0x10, 0x00}
	mic.EntityName = "Demo Microphone"
	mic.Talkers = []config.Talker{{
		MaxListeners:  2,
		StreamID:      mic.EntityID,
		StreamDestMAC: eui.Eui48{0x91, 0xe0, 0xf0, 0x00, 0xfe, 0x01},
		VLANID:        2,
	}}

	spk := config.Default()
	spk.EntityID = eui.Eui64{0x00, 0x1b, 0x92, 0xff, 0xfe, 0x00, 0x00, 0x02}
	spk.MAC = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x02}
	spk.EntityModelID = eui.Eui64{0x00, 0x1b, 0x92, 0x00, 0x00, 0x00, 0x20, 0x00}
	spk.EntityName = "Demo Speaker"
	spk.Listeners = 1
	spk.Descriptors = []config.Descriptor{{Type: config.DescriptorType(wire.DescriptorAudioUnit), Name: "Main"}}
	spk.Controls = []config.Control{{Name: "Gain", Value: config.HexBytes{0x00, 0x00}}}
	return []config.Config{mic, spk}
}

func loadConfigs() ([]config.Config, error) {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	var cfgs []config.Config
	if opts.ConfigFile != "" {
		for _, path := range strings.Split(opts.ConfigFile, ",") {
			c, err := config.Load(strings.TrimSpace(path))
			if err != nil {
				return nil, err
			}
			cfgs = append(cfgs, c)
		}
	} else {
		cfgs = demoConfigs()
	}
	for i := range cfgs {
		c := &cfgs[i]
		if opts.LogLevel != "" {
			c.LogLevel = opts.LogLevel
		}
		if opts.ProtocolLog != "" {
			c.ProtocolLog = opts.ProtocolLog
		}
		if opts.Capture != "" {
			c.Capture = opts.Capture
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return cfgs, nil
}

func run() error {
	cfgs, err := loadConfigs()
	if err != nil {
		return err
	}
	// Logging, protocol log and capture follow the first entity's file.
	cfg := cfgs[0]

	ctrlID, err := eui.ParseEui64(opts.ControllerID)
	if err != nil {
		return err
	}
	ctrlMAC, err := eui.ParseEui48(opts.ControllerMAC)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "avdecc> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	sessionID := log.NewSessionID()

	var protocolLogger log.Logger
	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return err
		}
		defer fl.Close()
		protocolLogger = log.NewMultiLogger(fl, log.NewSlogAdapter(logger))
		logger.Info("protocol log", "path", fl.Path(), "session", sessionID)
	}

	bus := network.NewBus(network.BusConfig{Clock: network.NewSystemClock(), Logger: logger})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var targets []interactive.Target
	for i, c := range cfgs {
		var port network.Port = bus.NewPort(c.MAC)
		if i == 0 && cfg.Capture != "" {
			cp, err := network.CreateCapture(port, cfg.Capture)
			if err != nil {
				return err
			}
			defer func() {
				logger.Info("capture closed", "path", cfg.Capture, "frames", cp.Count())
				cp.Close()
			}()
			port = cp
		}
		if protocolLogger != nil {
			port = network.NewLoggingPort(port, &log.Recorder{
				Logger:    protocolLogger,
				SessionID: sessionID,
				Role:      log.RoleEntity,
				EntityID:  c.EntityID,
			})
		}

		ent, err := service.NewEntityService(port, service.EntityConfig{
			File:           c,
			Logger:         logger.With("entity", c.EntityID.String()),
			ProtocolLogger: protocolLogger,
			SessionID:      sessionID,
		})
		if err != nil {
			return fmt.Errorf("entity %s: %w", c.EntityID, err)
		}
		if err := ent.Start(ctx); err != nil {
			return err
		}
		defer ent.Stop()
		targets = append(targets, interactive.Target{Service: ent, MAC: c.MAC})
		logger.Info("entity started", "entity", c.EntityID, "name", c.EntityName)
	}

	shell := interactive.New(rl.Stdout())
	ctrl, err := service.NewControllerService(bus.NewPort(ctrlMAC), service.ControllerConfig{
		EntityID:       ctrlID,
		Handler:        shell,
		Logger:         logger.With("controller", ctrlID.String()),
		ProtocolLogger: protocolLogger,
		SessionID:      sessionID,
	})
	if err != nil {
		return err
	}
	shell.Attach(ctrl, targets...)
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.Stop()

	shell.Run(ctx, rl)
	return nil
}
