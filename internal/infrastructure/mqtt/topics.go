package mqtt

// Fixed topic set shared with device firmware. Topic strings are the wire
// contract and must match exactly; payloads are plain UTF-8 text, not
// structured encoding.

// Inbound topics (firmware publishes, core subscribes).
const (
	// TopicLockStatus carries smart lock status reports: "LOCKED"/"UNLOCKED".
	TopicLockStatus = "home/lock/status"

	// TopicMotion carries motion sensor reports: "DETECTED"/"CLEARED".
	TopicMotion = "home/sensor/motion"

	// TopicDistance carries ultrasonic distance readings in centimetres.
	TopicDistance = "home/sensor/distance"

	// TopicAlarm carries siren status reports: "ACTIVE"/"INACTIVE".
	TopicAlarm = "home/security/alarm"

	// TopicArmed carries arming state reports: "ARMED"/"DISARMED".
	TopicArmed = "home/security/armed"

	// TopicRFIDEvents carries free-text RFID reader events.
	TopicRFIDEvents = "home/rfid/events"
)

// Outbound topics (core publishes, firmware subscribes).
const (
	// TopicLockSet carries lock commands: "LOCK"/"UNLOCK".
	TopicLockSet = "home/lock/set"

	// TopicAlarmSet carries siren commands: "ACTIVATE"/"DEACTIVATE".
	TopicAlarmSet = "home/security/setAlarm"

	// TopicArmedSet carries arming commands: "ARMED"/"DISARMED".
	TopicArmedSet = "home/security/setArmed"

	// TopicLightSet carries smart light commands: "ON"/"OFF".
	TopicLightSet = "home/light/set"
)

// TopicSystemStatus is where the core publishes its own online/offline
// status, including the Last Will and Testament on unexpected disconnect.
const TopicSystemStatus = "home/system/status"

// InboundTopics returns the full fixed subscription set. Reconnection must
// re-subscribe to every one of these before resuming message processing.
func InboundTopics() []string {
	return []string{
		TopicLockStatus,
		TopicMotion,
		TopicDistance,
		TopicAlarm,
		TopicArmed,
		TopicRFIDEvents,
	}
}
