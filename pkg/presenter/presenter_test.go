package presenter_test

import (
	"testing"
	"time"

	"github.com/dribbe/glucomon/pkg/glucose"
	"github.com/dribbe/glucomon/pkg/presenter"
)

func intp(v int) *int { return &v }

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		reading glucose.Reading
		unit    glucose.Unit
		want    string
	}{
		{
			name:    "mgdl no decimals",
			reading: glucose.Reading{Value: intp(123)},
			unit:    glucose.UnitMgDl,
			want:    "123",
		},
		{
			name:    "mmol one decimal",
			reading: glucose.Reading{Value: intp(100)},
			unit:    glucose.UnitMmol,
			want:    "5.5",
		},
		{
			name:    "mmol manual rounds up",
			reading: glucose.Reading{Value: intp(100), Kind: glucose.KindManual},
			unit:    glucose.UnitMmol,
			want:    "5.6",
		},
		{
			name:    "missing value",
			reading: glucose.Reading{},
			unit:    glucose.UnitMgDl,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.FormatValue(tt.reading, tt.unit); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		unit  glucose.Unit
		show  bool
		want  string
	}{
		{name: "mgdl positive", delta: 5, unit: glucose.UnitMgDl, show: true, want: "+5"},
		{name: "mgdl negative", delta: -8, unit: glucose.UnitMgDl, show: true, want: "-8"},
		{name: "mgdl zero", delta: 0, unit: glucose.UnitMgDl, show: true, want: "+0"},
		{name: "hidden", delta: 5, unit: glucose.UnitMgDl, show: false, want: ""},
		{name: "mmol suppresses +1", delta: 1, unit: glucose.UnitMmol, show: true, want: ""},
		{name: "mmol suppresses -1", delta: -1, unit: glucose.UnitMmol, show: true, want: ""},
		{name: "mmol suppresses 0", delta: 0, unit: glucose.UnitMmol, show: true, want: ""},
		{name: "mmol positive", delta: 9, unit: glucose.UnitMmol, show: true, want: "+0.5"},
		{name: "mmol negative", delta: -18, unit: glucose.UnitMmol, show: true, want: "-1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.FormatDelta(tt.delta, tt.unit, tt.show); got != tt.want {
				t.Errorf("FormatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{name: "fresh", ts: now.Add(-30 * time.Second), want: "Now"},
		{name: "one minute", ts: now.Add(-time.Minute), want: "Now"},
		{name: "five minutes", ts: now.Add(-5 * time.Minute), want: "5 min ago"},
		{name: "future skew", ts: now.Add(2 * time.Minute), want: "Now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.FormatAge(tt.ts, now); got != tt.want {
				t.Errorf("FormatAge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectColor(t *testing.T) {
	cfg := presenter.Config{Unit: glucose.UnitMgDl, Low: 70, High: 180, AlwaysUseColors: true}
	tests := []struct {
		name  string
		value float64
		cfg   presenter.Config
		alarm bool
		want  presenter.Color
	}{
		{name: "below low", value: 50, cfg: cfg, want: presenter.ColorRed},
		{name: "at low", value: 70, cfg: cfg, want: presenter.ColorGreen},
		{name: "in range", value: 120, cfg: cfg, want: presenter.ColorGreen},
		{name: "at high", value: 180, cfg: cfg, want: presenter.ColorYellow},
		{name: "above high", value: 200, cfg: cfg, want: presenter.ColorYellow},
		{
			name:  "inverted thresholds",
			value: 120,
			cfg:   presenter.Config{Unit: glucose.UnitMgDl, Low: 180, High: 70, AlwaysUseColors: true},
			want:  presenter.ColorPrimary,
		},
		{
			name:  "colors off",
			value: 50,
			cfg:   presenter.Config{Unit: glucose.UnitMgDl, Low: 70, High: 180},
			want:  presenter.ColorPrimary,
		},
		{
			name:  "colors off with alarm",
			value: 120,
			cfg:   presenter.Config{Unit: glucose.UnitMgDl, Low: 70, High: 180},
			alarm: true,
			want:  presenter.ColorRed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.SelectColor(tt.value, tt.cfg, tt.alarm); got != tt.want {
				t.Errorf("SelectColor(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := presenter.Config{Unit: glucose.UnitMgDl, Low: 70, High: 180, AlwaysUseColors: true, ShowDelta: true}

	u := glucose.Update{
		Reading: glucose.Reading{
			Value:     intp(112),
			Timestamp: now.Add(-4 * time.Minute),
			Trend:     glucose.TrendFortyFiveDown,
		},
		Delta: intp(-6),
	}

	m := presenter.Render(u, cfg, false, now)
	if m.ValueText != "112" {
		t.Errorf("ValueText = %q, want 112", m.ValueText)
	}
	if m.DeltaText != "-6" {
		t.Errorf("DeltaText = %q, want -6", m.DeltaText)
	}
	if m.AgeText != "4 min ago" {
		t.Errorf("AgeText = %q, want 4 min ago", m.AgeText)
	}
	if m.ArrowAngle != 135 {
		t.Errorf("ArrowAngle = %v, want 135", m.ArrowAngle)
	}
	if m.Color != presenter.ColorGreen {
		t.Errorf("Color = %v, want green", m.Color)
	}

	empty := presenter.Render(glucose.Update{}, cfg, false, now)
	if empty.ValueText != "" {
		t.Errorf("ValueText = %q, want empty", empty.ValueText)
	}
	if empty.ArrowAngle != 90 {
		t.Errorf("ArrowAngle = %v, want 90", empty.ArrowAngle)
	}
	if empty.Color != presenter.ColorPrimary {
		t.Errorf("Color = %v, want primary", empty.Color)
	}
}
