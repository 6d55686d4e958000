package reconcile

import "github.com/homeguardhq/homeguard-core/internal/device"

// Well-known device identities on the fixed topic set. Firmware assigns
// these IDs out-of-band; the reconciler creates the records implicitly on
// first contact using these seed profiles.
const (
	DeviceSmartLock        = "smartLock001"
	DeviceMotionSensor     = "motionSensor001"
	DeviceUltrasonicSensor = "ultrasonicSensor001"
	DeviceSiren            = "siren001"
)

// deviceSeeds maps well-known device IDs to their initial profiles.
var deviceSeeds = map[string]device.Device{
	DeviceSmartLock: {
		DeviceID: DeviceSmartLock,
		Name:     "Front Door Lock",
		Type:     device.TypeSmartLock,
		Room:     "Entrance",
	},
	DeviceMotionSensor: {
		DeviceID: DeviceMotionSensor,
		Name:     "Living Room Motion Sensor",
		Type:     device.TypeMotionSensor,
		Room:     "Living Room",
	},
	DeviceUltrasonicSensor: {
		DeviceID: DeviceUltrasonicSensor,
		Name:     "Entrance Distance Sensor",
		Type:     device.TypeUltrasonicSensor,
		Room:     "Entrance",
	},
	DeviceSiren: {
		DeviceID: DeviceSiren,
		Name:     "Security Siren",
		Type:     device.TypeSiren,
		Room:     "Hallway",
	},
}

// SeedFor returns the seed profile for a well-known device ID.
func SeedFor(id string) device.Device {
	if seed, ok := deviceSeeds[id]; ok {
		return seed
	}
	return device.Device{DeviceID: id, Name: id, Type: device.TypeContactSensor}
}
