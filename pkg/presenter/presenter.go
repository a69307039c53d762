// Package presenter turns a glucose reading and display settings into the
// strings, arrow angle and color the display widget draws. Everything in
// here is a pure function of its inputs so the widget can recompute on
// every change notification.
package presenter

import (
	"fmt"
	"time"

	"github.com/dribbe/glucomon/pkg/glucose"
)

type Color int

const (
	ColorPrimary Color = iota
	ColorRed
	ColorGreen
	ColorYellow
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	default:
		return "primary"
	}
}

// Config holds the user-facing display settings. Low and High are in the
// configured unit, same as the rendered value.
type Config struct {
	Unit            glucose.Unit
	Low             float64
	High            float64
	AlwaysUseColors bool
	ShowDelta       bool
}

// Model is the recomputed display state. DeltaText is empty when the
// delta is suppressed, ValueText is empty when the reading has no value.
type Model struct {
	ValueText  string
	DeltaText  string
	AgeText    string
	ArrowAngle float64
	Color      Color
}

// FormatValue renders the reading in the given unit, no decimals for
// mg/dL and one decimal for mmol/L. A reading without a value renders
// as the empty string.
func FormatValue(r glucose.Reading, unit glucose.Unit) string {
	if r.Value == nil {
		return ""
	}
	v := glucose.Convert(*r.Value, unit, r.Kind)
	if unit == glucose.UnitMmol {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// FormatDelta renders the mg/dL delta with an explicit sign. In mmol/L
// mode deltas of one mg/dL or less are below display resolution and
// render as the empty string.
func FormatDelta(delta int, unit glucose.Unit, show bool) string {
	if !show {
		return ""
	}
	if unit == glucose.UnitMmol {
		if delta >= -1 && delta <= 1 {
			return ""
		}
		return fmt.Sprintf("%+.1f", float64(delta)/glucose.MmolFactor)
	}
	return fmt.Sprintf("%+d", delta)
}

// FormatAge renders how long ago the reading was taken. Anything within
// the last minute, including clock skew into the future, is "Now".
func FormatAge(ts, now time.Time) string {
	min := int(now.Sub(ts).Minutes())
	if min <= 1 {
		return "Now"
	}
	return fmt.Sprintf("%d min ago", min)
}

// SelectColor maps the display-unit value against the thresholds.
// Misconfigured thresholds (low >= high) fall back to the primary color
// so a bad settings edit never paints the display. With colors switched
// off only an active alarm colors the value, and then always red.
func SelectColor(value float64, cfg Config, alarmActive bool) Color {
	if !cfg.AlwaysUseColors {
		if alarmActive {
			return ColorRed
		}
		return ColorPrimary
	}
	if cfg.Low >= cfg.High {
		return ColorPrimary
	}
	switch {
	case value < cfg.Low:
		return ColorRed
	case value < cfg.High:
		return ColorGreen
	default:
		return ColorYellow
	}
}

// Render computes the full display model for one reading.
func Render(u glucose.Update, cfg Config, alarmActive bool, now time.Time) Model {
	m := Model{
		ValueText:  FormatValue(u.Reading, cfg.Unit),
		AgeText:    FormatAge(u.Reading.Timestamp, now),
		ArrowAngle: glucose.ArrowAngle(u.Reading.Trend),
		Color:      ColorPrimary,
	}
	if u.Delta != nil {
		m.DeltaText = FormatDelta(*u.Delta, cfg.Unit, cfg.ShowDelta)
	}
	if u.Reading.Value != nil {
		v := glucose.Convert(*u.Reading.Value, cfg.Unit, u.Reading.Kind)
		m.Color = SelectColor(v, cfg, alarmActive)
	} else if !cfg.AlwaysUseColors && alarmActive {
		m.Color = ColorRed
	}
	return m
}
