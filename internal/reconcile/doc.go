// Package reconcile turns inbound broker messages into durable state.
//
// The topic set and payload vocabulary are fixed by the device firmware, so
// the mapping from message to mutation is a static dispatch table rather
// than anything configurable. Each handler performs an identity-keyed
// upsert, appends a classified activity entry, and optionally notifies the
// live push hub and the time-series exporter.
//
// Processing is at-least-once: the broker may redeliver, and a redelivered
// message must converge on the same stored state. A failed message is
// recorded in the activity log and dropped; it never stops the subscriber.
package reconcile
