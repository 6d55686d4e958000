// Package device defines the device model and its SQLite persistence.
//
// A Device is the last-known state of one physical unit (sensor or
// actuator), keyed by a stable firmware-assigned device ID. Records are
// mutated in place with last-write-wins semantics: the reconciler and the
// command dispatcher both write through ApplyState, which creates the
// record implicitly on first contact and applies partial state changes
// afterwards. Optimistic dispatcher writes are tagged Pending until a
// confirmed device report overwrites them.
package device
