package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/babylight/internal/battery"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Phase         string       `json:"phase"`
	PhaseSeconds  int64        `json:"phase_seconds"`
	Transitions   int          `json:"transitions"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Battery       *BatteryJSON `json:"battery,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// BatteryJSON is the JSON representation of the last battery reading.
type BatteryJSON struct {
	Raw       uint16  `json:"raw"`
	Band      string  `json:"band"`
	CellVolts float64 `json:"cell_volts"`
	Readings  int     `json:"readings"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickRate   uint32 `json:"tick_rate"`
	Chip       string `json:"chip"`
	PinRed     int    `json:"pin_red"`
	PinGreen   int    `json:"pin_green"`
	PinBlue    int    `json:"pin_blue"`
	PinLoad    int    `json:"pin_load"`
	I2CBus     string `json:"i2c_bus,omitempty"`
	ADCChannel int    `json:"adc_channel"`
	Watchdog   string `json:"watchdog,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Phase:         snap.Phase.String(),
		PhaseSeconds:  int64(snap.InPhase().Truncate(time.Second).Seconds()),
		Transitions:   snap.Transitions,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			TickRate:   snap.Config.TickRate,
			Chip:       snap.Config.Chip,
			PinRed:     snap.Config.Pins[0],
			PinGreen:   snap.Config.Pins[1],
			PinBlue:    snap.Config.Pins[2],
			PinLoad:    snap.Config.Pins[3],
			I2CBus:     snap.Config.I2CBus,
			ADCChannel: snap.Config.ADCChannel,
			Watchdog:   snap.Config.Watchdog,
		},
	}
}

func buildBattery(snap Snapshot, inner *StatusInner) {
	if snap.Sampled {
		inner.Battery = &BatteryJSON{
			Raw:       snap.Sample,
			Band:      snap.Band.String(),
			CellVolts: float64(int(battery.CellVolts(snap.Sample)*1000)) / 1000,
			Readings:  snap.Readings,
		}
	}
}

// FormatJSON returns the indented JSON status (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildBattery(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for a logged event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildBattery(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
