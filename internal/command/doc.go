// Package command is the outbound half of the fixed wire contract: it maps
// control verbs to broker messages with optimistic local state.
//
// The command set mirrors what the device firmware accepts. Dispatch
// publishes first and writes second, so a failed publish leaves the stores
// untouched; the pending flag on the optimistic record is cleared when the
// device's confirmed report arrives through the reconciler.
package command
