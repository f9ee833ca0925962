package panel

import (
	"fmt"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/sequencer"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// Input is everything Render needs.
type Input struct {
	Status              session.Status
	CredentialsRequired bool
	Model               device.Snapshot
	Animations          map[device.ActuatorID]sequencer.Animation

	// Location formats the last-update clock. Nil means local time.
	Location *time.Location
}

// View is the rendered dashboard.
type View struct {
	Connection          ConnectionView `json:"connection"`
	CredentialsRequired bool           `json:"credentials_required"`
	Device              DeviceView     `json:"device"`
	Actuators           []ActuatorView `json:"actuators"`
	LastUpdate          string         `json:"last_update,omitempty"`
}

// ConnectionView is the status indicator.
type ConnectionView struct {
	State    string `json:"state"`
	Text     string `json:"text"`
	Online   bool   `json:"online"`
	Reason   string `json:"reason,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// DeviceView is the controller heartbeat.
type DeviceView struct {
	Reported bool   `json:"reported"`
	Online   bool   `json:"online"`
	Text     string `json:"text"`
}

// ActuatorView is one pump card.
type ActuatorView struct {
	ID          int          `json:"id"`
	On          bool         `json:"on"`
	StatusText  string       `json:"status_text"`
	Phase       string       `json:"phase"`
	Flowing     bool         `json:"flowing"`
	Targets     []bool       `json:"targets"`
	Celebrating []bool       `json:"celebrating"`
	Schedule    ScheduleView `json:"schedule"`
}

// ScheduleView is a schedule form.
type ScheduleView struct {
	Known        bool   `json:"known"`
	Enabled      bool   `json:"enabled"`
	Time         string `json:"time"`
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
	IntervalDays int    `json:"interval_days"`
	DurationMs   int    `json:"duration_ms"`
}

// Render builds the View for in.
func Render(in Input) View {
	v := View{
		Connection:          renderConnection(in.Status),
		CredentialsRequired: in.CredentialsRequired,
		Device:              renderDevice(in.Model.Health),
		Actuators:           make([]ActuatorView, 0, len(in.Model.Actuators)),
	}

	// A connected broker with an offline controller is shown as offline.
	if in.Status.State == session.StateConnected && v.Device.Reported && !v.Device.Online {
		v.Connection.Text = "Device Offline"
		v.Connection.Online = false
	}

	schedules := make(map[device.ActuatorID]device.Schedule, len(in.Model.Schedules))
	for _, s := range in.Model.Schedules {
		schedules[s.ID] = s
	}

	for _, a := range in.Model.Actuators {
		av := ActuatorView{
			ID:         int(a.ID),
			On:         a.IsOn,
			StatusText: statusText(a),
			Phase:      sequencer.PhaseIdle.String(),
			Schedule:   renderSchedule(schedules[a.ID]),
		}
		if anim, ok := in.Animations[a.ID]; ok {
			av.Phase = anim.Phase.String()
			av.Flowing = anim.Flowing
			av.Targets = anim.Targets
			av.Celebrating = anim.Celebrating
		}
		v.Actuators = append(v.Actuators, av)
	}

	if !in.Model.LastMessageAt.IsZero() {
		loc := in.Location
		if loc == nil {
			loc = time.Local
		}
		v.LastUpdate = "Last update: " + in.Model.LastMessageAt.In(loc).Format("15:04:05")
	}
	return v
}

func renderConnection(st session.Status) ConnectionView {
	cv := ConnectionView{
		State:    st.State.String(),
		Reason:   st.Reason,
		Kind:     string(st.Kind),
		Attempts: st.Attempts,
	}
	switch st.State {
	case session.StateConnecting:
		cv.Text = "Connecting..."
	case session.StateConnected:
		cv.Text = "Connected"
		cv.Online = true
	case session.StateReconnecting:
		cv.Text = "Reconnecting..."
	case session.StateErrored:
		cv.Text = "Error: " + st.Reason
	default:
		cv.Text = "Disconnected"
	}
	return cv
}

func renderDevice(h device.DeviceHealth) DeviceView {
	switch {
	case !h.Reported:
		return DeviceView{Text: "Unknown"}
	case h.Online:
		return DeviceView{Reported: true, Online: true, Text: "Online"}
	default:
		return DeviceView{Reported: true, Text: "Offline"}
	}
}

func statusText(a device.ActuatorStatus) string {
	switch {
	case !a.Reported:
		return "--"
	case a.IsOn:
		return "ON"
	default:
		return "OFF"
	}
}

func renderSchedule(s device.Schedule) ScheduleView {
	c := s.Config
	return ScheduleView{
		Known:        s.Known,
		Enabled:      c.Enabled,
		Time:         fmt.Sprintf("%02d:%02d", c.Hour, c.Minute),
		Hour:         c.Hour,
		Minute:       c.Minute,
		IntervalDays: c.IntervalDays,
		DurationMs:   c.DurationMs,
	}
}
