// Package controller implements the AVDECC controller role for AEM.
//
// A Controller sends AEM commands to entities one at a time and matches
// each response by target entity id, command type and sequence id.
// Unsolicited responses from entities the controller registered with are
// pushed to the ResponseHandler as they arrive. Responses that match
// nothing are dropped.
//
// The sequence id is a 16-bit counter. A response delayed past a full
// wrap of the counter could match a newer command with the same target
// and type; callers that care should check CanSendCommand and keep
// commands per target short-lived.
package controller
