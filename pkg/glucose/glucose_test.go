package glucose_test

import (
	"math"
	"testing"

	"github.com/dribbe/glucomon/pkg/glucose"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		value int
		unit  glucose.Unit
		kind  glucose.Kind
		want  float64
	}{
		{
			name:  "mgdl passthrough",
			value: 120,
			unit:  glucose.UnitMgDl,
			kind:  glucose.KindSensor,
			want:  120,
		},
		{
			name:  "mmol sensor rounds half-up",
			value: 100, // 5.5499... mmol/L
			unit:  glucose.UnitMmol,
			kind:  glucose.KindSensor,
			want:  5.5,
		},
		{
			name:  "mmol manual rounds up",
			value: 100,
			unit:  glucose.UnitMmol,
			kind:  glucose.KindManual,
			want:  5.6,
		},
		{
			name:  "mmol sensor exact tenth",
			value: 90, // 4.9950 mmol/L
			unit:  glucose.UnitMmol,
			kind:  glucose.KindSensor,
			want:  5.0,
		},
		{
			name:  "mmol manual exact tenth stays",
			value: 180, // 9.9900 mmol/L, ceil to 10.0
			unit:  glucose.UnitMmol,
			kind:  glucose.KindManual,
			want:  10.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := glucose.Convert(tt.value, tt.unit, tt.kind)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert(%d) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

// Converting to mmol/L and back must recover the original mg/dL value
// within one display-rounding unit (0.05 mmol/L ≈ 0.9 mg/dL).
func TestConvertRoundTrip(t *testing.T) {
	for v := 20; v <= 500; v++ {
		mmol := glucose.Convert(v, glucose.UnitMmol, glucose.KindSensor)
		back := mmol * glucose.MmolFactor
		if math.Abs(back-float64(v)) > 1 {
			t.Fatalf("round trip %d: got %.3f back", v, back)
		}
	}
}

func TestArrowAngle(t *testing.T) {
	tests := []struct {
		trend glucose.Trend
		want  float64
	}{
		{glucose.TrendDoubleUp, 0},
		{glucose.TrendSingleUp, 0},
		{glucose.TrendTripleUp, 0},
		{glucose.TrendFortyFiveUp, 45},
		{glucose.TrendFlat, 90},
		{glucose.TrendNone, 90},
		{glucose.TrendNotComputable, 90},
		{glucose.TrendRateOutOfRange, 90},
		{glucose.TrendFortyFiveDown, 135},
		{glucose.TrendSingleDown, 180},
		{glucose.TrendDoubleDown, 180},
		{glucose.TrendTripleDown, 180},
	}
	for _, tt := range tests {
		t.Run(tt.trend.String(), func(t *testing.T) {
			if got := glucose.ArrowAngle(tt.trend); got != tt.want {
				t.Errorf("ArrowAngle(%v) = %v, want %v", tt.trend, got, tt.want)
			}
		})
	}
}

func TestTrendFromString(t *testing.T) {
	tests := []struct {
		in   string
		want glucose.Trend
	}{
		{"DoubleUp", glucose.TrendDoubleUp},
		{"Flat", glucose.TrendFlat},
		{"FortyFiveDown", glucose.TrendFortyFiveDown},
		{"RATE OUT OF RANGE", glucose.TrendRateOutOfRange},
		{"bogus", glucose.TrendNone},
		{"", glucose.TrendNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := glucose.TrendFromString(tt.in); got != tt.want {
				t.Errorf("TrendFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
