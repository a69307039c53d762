package widgets

import (
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	sdialog "github.com/sqweek/dialog"

	"github.com/dribbe/glucomon/pkg/glucose"
	"github.com/dribbe/glucomon/pkg/presenter"
	"github.com/dribbe/glucomon/pkg/widgets/numericentry"
)

const (
	prefsUnit         = "unit"
	prefsLow          = "lowGlucose"
	prefsHigh         = "highGlucose"
	prefsAlwaysColors = "alwaysUseColors"
	prefsShowDelta    = "showDelta"
	prefsMuteAlarms   = "muteAlarms"
	prefsNSURL        = "nightscoutURL"
	prefsNSToken      = "nightscoutToken"
	prefsPollInterval = "pollInterval"
	prefsLogDir       = "logDir"

	defaultLow      = 70
	defaultHigh     = 180
	defaultInterval = 60 // seconds
)

type SettingsWidget struct {
	widget.BaseWidget

	units         *widget.Select
	low           *numericentry.Widget
	high          *numericentry.Widget
	alwaysColors  *widget.Check
	showDelta     *widget.Check
	muteAlarms    *widget.Check
	urlEntry      *widget.Entry
	tokenEntry    *widget.Entry
	intervalValue *widget.Label
	interval      *widget.Slider

	container *fyne.Container

	OnClose func()
}

func NewSettingsWidget() *SettingsWidget {
	sw := &SettingsWidget{}
	sw.ExtendBaseWidget(sw)

	prefs := fyne.CurrentApp().Preferences()

	sw.units = widget.NewSelect([]string{glucose.UnitMgDl.String(), glucose.UnitMmol.String()}, func(s string) {
		prefs.SetString(prefsUnit, s)
	})

	sw.low = numericentry.New()
	sw.low.OnChanged = func(string) {
		prefs.SetInt(prefsLow, int(sw.low.Value(defaultLow)))
	}
	sw.high = numericentry.New()
	sw.high.OnChanged = func(string) {
		prefs.SetInt(prefsHigh, int(sw.high.Value(defaultHigh)))
	}

	sw.alwaysColors = widget.NewCheck("Color the value against the thresholds even without an alarm", func(b bool) {
		prefs.SetBool(prefsAlwaysColors, b)
	})
	sw.showDelta = widget.NewCheck("Show change since the previous reading", func(b bool) {
		prefs.SetBool(prefsShowDelta, b)
	})
	sw.muteAlarms = widget.NewCheck("Mute alarm sounds", func(b bool) {
		prefs.SetBool(prefsMuteAlarms, b)
	})

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.PlaceHolder = "https://yoursite.nightscout.example"
	sw.urlEntry.OnChanged = func(s string) {
		prefs.SetString(prefsNSURL, s)
	}
	sw.tokenEntry = widget.NewPasswordEntry()
	sw.tokenEntry.OnChanged = func(s string) {
		prefs.SetString(prefsNSToken, s)
	}

	sw.intervalValue = widget.NewLabel("")
	sw.interval = sw.newIntervalSlider()

	logPath := widget.NewEntry()
	logPath.SetText(prefs.StringWithFallback(prefsLogDir, ""))

	sw.container = container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Settings"),
			canvas.NewLine(theme.SeparatorColor()),
		),
		widget.NewButtonWithIcon("Save & Close", theme.ConfirmIcon(), func() {
			if sw.OnClose != nil {
				sw.OnClose()
			}
		}),
		nil,
		nil,
		container.NewVBox(
			container.NewBorder(nil, nil, widget.NewLabel("Units"), nil, sw.units),
			container.NewGridWithColumns(2,
				container.NewBorder(nil, nil, widget.NewLabel("Low (mg/dL)"), nil, sw.low),
				container.NewBorder(nil, nil, widget.NewLabel("High (mg/dL)"), nil, sw.high),
			),
			widget.NewSeparator(),
			sw.alwaysColors,
			sw.showDelta,
			sw.muteAlarms,
			widget.NewSeparator(),
			container.NewBorder(nil, nil, widget.NewLabel("Nightscout URL"), nil, sw.urlEntry),
			container.NewBorder(nil, nil, widget.NewLabel("Access token"), nil, sw.tokenEntry),
			container.NewBorder(nil, nil, widget.NewLabel("Poll interval (s)"), sw.intervalValue, sw.interval),
			widget.NewSeparator(),
			container.NewBorder(
				nil,
				nil,
				widget.NewLabel("Log folder"),
				widget.NewButtonWithIcon("Browse", theme.FileIcon(), func() {
					dir, err := sdialog.Directory().Title("Select log folder").Browse()
					if err != nil {
						if errors.Is(err, sdialog.ErrCancelled) {
							return
						}
						log.Println(err)
						return
					}
					logPath.SetText(dir)
					prefs.SetString(prefsLogDir, dir)
				}),
				logPath,
			),
		),
	)
	sw.loadPrefs()
	return sw
}

func (sw *SettingsWidget) newIntervalSlider() *widget.Slider {
	slider := widget.NewSlider(15, 300)
	slider.Step = 15
	slider.OnChanged = func(f float64) {
		sw.intervalValue.SetText(fmt.Sprintf("%0.fs", f))
	}
	slider.OnChangeEnded = func(f float64) {
		fyne.CurrentApp().Preferences().SetInt(prefsPollInterval, int(f))
	}
	return slider
}

func (sw *SettingsWidget) loadPrefs() {
	prefs := fyne.CurrentApp().Preferences()
	sw.units.SetSelected(prefs.StringWithFallback(prefsUnit, glucose.UnitMgDl.String()))
	sw.low.SetValue(float64(prefs.IntWithFallback(prefsLow, defaultLow)))
	sw.high.SetValue(float64(prefs.IntWithFallback(prefsHigh, defaultHigh)))
	sw.alwaysColors.SetChecked(prefs.BoolWithFallback(prefsAlwaysColors, true))
	sw.showDelta.SetChecked(prefs.BoolWithFallback(prefsShowDelta, true))
	sw.muteAlarms.SetChecked(prefs.BoolWithFallback(prefsMuteAlarms, false))
	sw.urlEntry.SetText(prefs.StringWithFallback(prefsNSURL, ""))
	sw.tokenEntry.SetText(prefs.StringWithFallback(prefsNSToken, ""))
	sw.interval.SetValue(float64(prefs.IntWithFallback(prefsPollInterval, defaultInterval)))
}

// Unit returns the selected display unit.
func Unit() glucose.Unit {
	if fyne.CurrentApp().Preferences().StringWithFallback(prefsUnit, glucose.UnitMgDl.String()) == glucose.UnitMmol.String() {
		return glucose.UnitMmol
	}
	return glucose.UnitMgDl
}

// ThresholdsMgDl returns the raw configured thresholds.
func ThresholdsMgDl() (low, high int) {
	prefs := fyne.CurrentApp().Preferences()
	return prefs.IntWithFallback(prefsLow, defaultLow), prefs.IntWithFallback(prefsHigh, defaultHigh)
}

// DisplayConfig assembles the presenter configuration from preferences,
// converting the mg/dL thresholds into the display unit.
func DisplayConfig() presenter.Config {
	prefs := fyne.CurrentApp().Preferences()
	unit := Unit()
	low, high := ThresholdsMgDl()
	cfg := presenter.Config{
		Unit:            unit,
		Low:             float64(low),
		High:            float64(high),
		AlwaysUseColors: prefs.BoolWithFallback(prefsAlwaysColors, true),
		ShowDelta:       prefs.BoolWithFallback(prefsShowDelta, true),
	}
	if unit == glucose.UnitMmol {
		cfg.Low = float64(low) / glucose.MmolFactor
		cfg.High = float64(high) / glucose.MmolFactor
	}
	return cfg
}

func MuteAlarms() bool {
	return fyne.CurrentApp().Preferences().BoolWithFallback(prefsMuteAlarms, false)
}

func NightscoutURL() string {
	return fyne.CurrentApp().Preferences().StringWithFallback(prefsNSURL, "")
}

func NightscoutToken() string {
	return fyne.CurrentApp().Preferences().StringWithFallback(prefsNSToken, "")
}

func PollIntervalSeconds() int {
	return fyne.CurrentApp().Preferences().IntWithFallback(prefsPollInterval, defaultInterval)
}

func LogDir() string {
	return fyne.CurrentApp().Preferences().StringWithFallback(prefsLogDir, "")
}

func (sw *SettingsWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sw.container)
}
