package glucose

import (
	"math"
	"time"
)

// MmolFactor converts mg/dL to mmol/L.
const MmolFactor = 18.0182

type Unit int

const (
	UnitMgDl Unit = iota
	UnitMmol
)

func (u Unit) String() string {
	if u == UnitMmol {
		return "mmol/L"
	}
	return "mg/dL"
}

type Kind int

const (
	KindSensor Kind = iota
	KindManual
)

func (k Kind) String() string {
	if k == KindManual {
		return "manual"
	}
	return "sensor"
}

type Trend int

const (
	TrendNone Trend = iota
	TrendTripleUp
	TrendDoubleUp
	TrendSingleUp
	TrendFortyFiveUp
	TrendFlat
	TrendFortyFiveDown
	TrendSingleDown
	TrendDoubleDown
	TrendTripleDown
	TrendNotComputable
	TrendRateOutOfRange
)

var trendNames = map[Trend]string{
	TrendNone:           "NONE",
	TrendTripleUp:       "TripleUp",
	TrendDoubleUp:       "DoubleUp",
	TrendSingleUp:       "SingleUp",
	TrendFortyFiveUp:    "FortyFiveUp",
	TrendFlat:           "Flat",
	TrendFortyFiveDown:  "FortyFiveDown",
	TrendSingleDown:     "SingleDown",
	TrendDoubleDown:     "DoubleDown",
	TrendTripleDown:     "TripleDown",
	TrendNotComputable:  "NOT COMPUTABLE",
	TrendRateOutOfRange: "RATE OUT OF RANGE",
}

func (t Trend) String() string {
	if s, ok := trendNames[t]; ok {
		return s
	}
	return "NONE"
}

// TrendFromString maps a Nightscout direction string to a Trend.
// Unknown strings map to TrendNone.
func TrendFromString(s string) Trend {
	for t, name := range trendNames {
		if name == s {
			return t
		}
	}
	return TrendNone
}

// Reading is a single glucose measurement as delivered by the source.
// Value is mg/dL and may be absent on sensor errors.
type Reading struct {
	Value     *int
	Timestamp time.Time
	Kind      Kind
	Trend     Trend
}

// Update is what travels on the bus: a reading plus the delta in mg/dL
// against the previous reading, when one was available.
type Update struct {
	Reading Reading
	Delta   *int
}

// Convert returns value in the requested unit. mmol/L values are rounded
// to one decimal; manual entries round up to the next tenth while sensor
// entries round half-up. The asymmetry is deliberate, see glucose_test.go.
func Convert(value int, unit Unit, kind Kind) float64 {
	if unit == UnitMgDl {
		return float64(value)
	}
	raw := float64(value) / MmolFactor
	if kind == KindManual {
		return math.Ceil(raw*10) / 10
	}
	return math.Round(raw*10) / 10
}

// ArrowAngle returns the trend arrow rotation in degrees. 0 points up,
// 90 is flat and 180 points down. Anything unknown renders flat.
func ArrowAngle(t Trend) float64 {
	switch t {
	case TrendTripleUp, TrendDoubleUp, TrendSingleUp:
		return 0
	case TrendFortyFiveUp:
		return 45
	case TrendFortyFiveDown:
		return 135
	case TrendSingleDown, TrendDoubleDown, TrendTripleDown:
		return 180
	default:
		return 90
	}
}
