package reconcile

// Distance thresholds in centimetres, matching the ultrasonic sensor's
// reported unit. These are shared with frontend clients via GET /api/config
// so both ends draw the same lines.
const (
	// DistanceWarning is the range below which an object counts as nearby.
	DistanceWarning = 30.0

	// DistanceDanger is the range below which a nearby object is logged
	// as a warning.
	DistanceDanger = 15.0

	// UnlockProximity is the range below which an unlock is attributed to
	// a close-range credential (RFID at the door).
	UnlockProximity = 8.0
)
