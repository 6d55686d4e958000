package command

import (
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
	"github.com/homeguardhq/homeguard-core/internal/reconcile"
)

// Command is one of the fixed control verbs accepted by the dispatcher.
// The set is closed; device firmware only understands these.
type Command string

const (
	CommandArm        Command = "ARM"
	CommandDisarm     Command = "DISARM"
	CommandLock       Command = "LOCK"
	CommandUnlock     Command = "UNLOCK"
	CommandActivate   Command = "ACTIVATE"
	CommandDeactivate Command = "DEACTIVATE"
)

// route describes where a command goes on the wire and which record it
// optimistically updates while waiting for the device to report back.
type route struct {
	topic   string
	payload string

	// deviceID is the record to mark pending; empty for commands whose
	// primary effect lands on the systemArmed setting.
	deviceID string

	// status is the optimistic status written alongside pending.
	status string

	// armed, when non-nil, is the arming flag the command implies. For
	// ARM/DISARM it is mirrored onto the systemArmed setting and the siren
	// record; for LOCK/UNLOCK it tracks the lock's own flag.
	armed *bool
}

func boolPtr(b bool) *bool { return &b }

// routes is the static command table. The arming payloads are state words
// rather than verbs; the firmware echoes these exact strings back on the
// corresponding status topics.
var routes = map[Command]route{
	CommandArm:        {topic: mqtt.TopicArmedSet, payload: "ARMED", deviceID: reconcile.DeviceSiren, armed: boolPtr(true)},
	CommandDisarm:     {topic: mqtt.TopicArmedSet, payload: "DISARMED", deviceID: reconcile.DeviceSiren, armed: boolPtr(false)},
	CommandLock:       {topic: mqtt.TopicLockSet, payload: "LOCK", deviceID: reconcile.DeviceSmartLock, status: "LOCKED", armed: boolPtr(true)},
	CommandUnlock:     {topic: mqtt.TopicLockSet, payload: "UNLOCK", deviceID: reconcile.DeviceSmartLock, status: "UNLOCKED", armed: boolPtr(false)},
	CommandActivate:   {topic: mqtt.TopicAlarmSet, payload: "ACTIVATE", deviceID: reconcile.DeviceSiren, status: "ACTIVE"},
	CommandDeactivate: {topic: mqtt.TopicAlarmSet, payload: "DEACTIVATE", deviceID: reconcile.DeviceSiren, status: "INACTIVE"},
}

// Valid reports whether c is a recognised command verb.
func (c Command) Valid() bool {
	_, ok := routes[c]
	return ok
}
