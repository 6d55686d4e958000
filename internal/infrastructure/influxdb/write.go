package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSensorReading records a numeric sensor reading.
//
// The write is non-blocking; data is batched and sent asynchronously. When
// the client is disconnected the reading is dropped silently - telemetry
// export is best-effort and never blocks ingestion.
//
// Parameters:
//   - deviceID: Device the reading came from
//   - measurement: What was measured (e.g. "distance_cm")
//   - value: The numeric reading
func (c *Client) WriteSensorReading(deviceID, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor_readings",
		map[string]string{
			"device_id":   deviceID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
