// Package service assembles complete AVDECC nodes from their parts.
//
// # EntityService
//
// EntityService owns an entity.Entity built from a config.Config, with its
// MemoryState, its talker and listener groups attached, and the scheduler
// that drives them from a network.Port.
//
//	cfg, _ := config.Load("entity.yaml")
//	svc, err := service.NewEntityService(port, service.EntityConfig{File: cfg})
//	svc.Start(ctx)
//	defer svc.Stop()
//
// # ControllerService
//
// ControllerService pairs the AEM controller.Controller with the ACMP
// acmp.Controller on one port.
//
// Both services run their scheduler on one goroutine. Do runs a function on
// that goroutine's lock, so callers on other goroutines never race the
// protocol state. Tests skip Start and call Poll directly.
package service
