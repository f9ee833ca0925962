package mqtt

import (
	"fmt"
	"strconv"
	"strings"
)

// TopicPrefix is the root of every topic the irrigation controller uses.
const TopicPrefix = "plant"

// TopicKind identifies what a topic carries.
type TopicKind int

// Topic kinds.
const (
	TopicUnknown TopicKind = iota
	TopicPumpSet
	TopicPumpStatus
	TopicPumpSchedule
	TopicDeviceStatus
)

// String returns a short name for logging.
func (k TopicKind) String() string {
	switch k {
	case TopicPumpSet:
		return "pump_set"
	case TopicPumpStatus:
		return "pump_status"
	case TopicPumpSchedule:
		return "pump_schedule"
	case TopicDeviceStatus:
		return "device_status"
	default:
		return "unknown"
	}
}

// Topics provides builders for the plant/... topic hierarchy.
//
//	topics := mqtt.Topics{}
//	topics.PumpSet(1)      // "plant/pump1/set"
//	topics.DeviceStatus()  // "plant/status"
type Topics struct{}

// PumpSet returns the command topic for a pump.
//
// Example: plant/pump1/set
func (Topics) PumpSet(pump int) string {
	return fmt.Sprintf("%s/pump%d/set", TopicPrefix, pump)
}

// PumpStatus returns the topic on which the device reports a pump's state.
//
// Example: plant/pump1/status
func (Topics) PumpStatus(pump int) string {
	return fmt.Sprintf("%s/pump%d/status", TopicPrefix, pump)
}

// PumpSchedule returns the schedule topic for a pump. It is used in both directions.
//
// Example: plant/pump1/schedule
func (Topics) PumpSchedule(pump int) string {
	return fmt.Sprintf("%s/pump%d/schedule", TopicPrefix, pump)
}

// DeviceStatus returns the controller heartbeat topic.
//
// Example: plant/status
func (Topics) DeviceStatus() string {
	return TopicPrefix + "/status"
}

// Subscriptions returns the fixed topic set a dashboard subscribes to for
// pumps 1..pumps: command echo, status and schedule per pump, then the
// controller heartbeat.
func (t Topics) Subscriptions(pumps int) []string {
	topics := make([]string, 0, pumps*3+1)
	for n := 1; n <= pumps; n++ {
		topics = append(topics, t.PumpSet(n), t.PumpStatus(n), t.PumpSchedule(n))
	}
	return append(topics, t.DeviceStatus())
}

// ParseTopic identifies a topic and, for pump topics, the pump number.
// Anything outside the hierarchy yields TopicUnknown.
func ParseTopic(topic string) (TopicKind, int) {
	if topic == (Topics{}).DeviceStatus() {
		return TopicDeviceStatus, 0
	}

	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix || !strings.HasPrefix(parts[1], "pump") {
		return TopicUnknown, 0
	}

	digits := strings.TrimPrefix(parts[1], "pump")
	pump, err := strconv.Atoi(digits)
	if err != nil || pump < 1 || strconv.Itoa(pump) != digits {
		return TopicUnknown, 0
	}

	switch parts[2] {
	case "set":
		return TopicPumpSet, pump
	case "status":
		return TopicPumpStatus, pump
	case "schedule":
		return TopicPumpSchedule, pump
	default:
		return TopicUnknown, 0
	}
}
