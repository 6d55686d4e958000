// Package mqtt wraps the paho MQTT client behind the narrow capability
// surface the rest of HomeGuard needs: publish, subscribe, connection state.
//
// The broker connection is a long-lived owned resource handed to the
// reconciler and command dispatcher at startup. An explicit state machine
// (Disconnected -> Connecting -> Subscribed, with Degraded for partial
// re-subscription) replaces ad hoc event-handler reconnection logic, and
// the tracked subscription set is restored in full before message
// processing resumes after a reconnect.
package mqtt
