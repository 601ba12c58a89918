package surface

import "math"

// Fader and knob scaling.
const (
	// SliderMax is the raw fader position that maps to full host level.
	SliderMax = 13072 * 16000 / 12800

	// HostMax is the host's full-scale automation level.
	HostMax = 1 << 30

	// RawMax is the largest 14-bit fader value.
	RawMax = 0x3FFF

	knobRes = 1.0 / (40 * 2.5)
)

// DecodeRelative turns a sign-magnitude relative CC value into a delta.
// 0x00..0x3F are positive steps, 0x40..0x7F negative.
func DecodeRelative(raw uint8) int {
	if raw >= 0x40 {
		return -int(raw - 0x40)
	}
	return int(raw)
}

// KnobAccel returns the acceleration multiplier for a knob step of n ticks.
func KnobAccel(n int) float64 {
	if n < 0 {
		n = -n
	}
	if n <= 1 {
		return 1
	}
	return math.Pow(float64(n), 0.75)
}

// KnobStep is the signed, accelerated step size for a relative delta,
// expressed as a fraction of full scale.
func KnobStep(delta int) float64 {
	switch {
	case delta > 0:
		return KnobAccel(delta) * knobRes
	case delta < 0:
		return -KnobAccel(delta) * knobRes
	}
	return 0
}

// RawToHostLevel maps a 14-bit fader position to a host level.
// Positions past SliderMax saturate at HostMax.
func RawToHostLevel(raw int) int {
	if raw <= 0 {
		return 0
	}
	level := int(math.Round(float64(raw) / SliderMax * HostMax))
	if level > HostMax {
		return HostMax
	}
	return level
}

// HostLevelToRaw maps a host level back to a fader position.
func HostLevelToRaw(level int) int {
	if level <= 0 {
		return 0
	}
	if level > HostMax {
		level = HostMax
	}
	return int(math.Round(float64(level) / HostMax * SliderMax))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
