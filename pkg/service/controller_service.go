package service

import (
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/handler"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
)

// ControllerConfig configures a ControllerService.
type ControllerConfig struct {
	// EntityID is the controller's entity id.
	EntityID eui.Eui64

	// Handler receives AEM responses, notifications and timeouts (optional).
	Handler controller.ResponseHandler

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives protocol events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// ControllerService is one controller station with both client roles.
type ControllerService struct {
	loop

	aem  *controller.Controller
	acmp *acmp.Controller
}

// NewControllerService creates the AEM and ACMP controller roles on port.
func NewControllerService(port network.Port, config ControllerConfig) (*ControllerService, error) {
	cc := controller.DefaultConfig()
	cc.EntityID = config.EntityID
	cc.Logger = config.Logger
	cc.ProtocolLogger = config.ProtocolLogger
	cc.SessionID = config.SessionID
	aem, err := controller.New(port, config.Handler, cc)
	if err != nil {
		return nil, err
	}
	ac := acmp.NewController(port, config.EntityID, acmp.ControllerConfig{
		Logger:         config.Logger,
		ProtocolLogger: config.ProtocolLogger,
		SessionID:      config.SessionID,
	})

	group := handler.NewGroup(2)
	if err := group.Add(aem); err != nil {
		return nil, err
	}
	if err := group.Add(ac); err != nil {
		return nil, err
	}
	return &ControllerService{
		loop: loop{
			sched:    handler.NewScheduler(port, group),
			interval: handler.DefaultPollInterval,
			logger:   config.Logger,
		},
		aem:  aem,
		acmp: ac,
	}, nil
}

// AEM returns the AEM controller. Use it inside Do once the service is
// started.
func (s *ControllerService) AEM() *controller.Controller {
	return s.aem
}

// ACMP returns the ACMP controller. Use it inside Do once the service is
// started.
func (s *ControllerService) ACMP() *acmp.Controller {
	return s.acmp
}
