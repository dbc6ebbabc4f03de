// Package subscription implements the registered controller table of an
// AVDECC entity.
//
// A controller registers with REGISTER_UNSOLICITED_NOTIFICATION to receive
// unsolicited AEM responses whenever another controller changes the entity's
// state. The table is a bounded array: registration is idempotent, and
// removal swaps the removed slot with the last active one, so iteration
// order is not stable across removals.
//
// # Fan-Out
//
// Notify visits every registered controller except one (the controller whose
// command caused the change, which already receives the direct response).
//
// # Lifecycle
//
// Registrations do not survive an entity restart. Controllers that stop
// answering are not aged out; they stay registered until they deregister.
package subscription
