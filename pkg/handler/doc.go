// Package handler provides the cooperative scheduler that drives the
// AVDECC protocol objects.
//
// Every protocol object implements Handler. A Group holds a bounded list
// of handlers: Tick reaches every member on every pass, while an inbound
// frame is offered to members in registration order until one claims it.
// A Scheduler alternates between polling a network.Port and ticking its
// Group. Handlers never block; all timing is derived from the millisecond
// clock passed to Tick.
package handler
