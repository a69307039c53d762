package windows

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/skratchdot/open-golang/open"

	"github.com/dribbe/glucomon/pkg/alarm"
	"github.com/dribbe/glucomon/pkg/ebus"
	"github.com/dribbe/glucomon/pkg/glucose"
	"github.com/dribbe/glucomon/pkg/logfile"
	"github.com/dribbe/glucomon/pkg/nightscout"
	"github.com/dribbe/glucomon/pkg/widgets"
	"github.com/dribbe/glucomon/pkg/widgets/numericentry"
)

type MainWindow struct {
	fyne.Window
	app fyne.App

	display  *widgets.GlucoseDisplay
	settings *widgets.SettingsWidget

	buttons    *mainWindowButtons
	statusText *widget.Label

	poller    *nightscout.Poller
	watcher   *alarm.Watcher
	logWriter *logfile.Writer
	unsub     func()

	pollingRunning bool
	quitTicker     chan struct{}
}

type mainWindowButtons struct {
	pollBtn     *widget.Button
	manualBtn   *widget.Button
	historyBtn  *widget.Button
	settingsBtn *widget.Button
	siteBtn     *widget.Button
}

func NewMainWindow(a fyne.App) *MainWindow {
	mw := &MainWindow{
		Window:     a.NewWindow("glucomon"),
		app:        a,
		statusText: widget.NewLabel("Not polling"),
		quitTicker: make(chan struct{}),
	}

	mw.display = widgets.NewGlucoseDisplay(widgets.GlucoseDisplayConfig{})
	mw.settings = widgets.NewSettingsWidget()

	low, high := widgets.ThresholdsMgDl()
	mw.watcher = alarm.NewWatcher(low, high)
	mw.watcher.SetMuted(widgets.MuteAlarms())
	mw.watcher.OnChange(func(s alarm.State) {
		mw.display.SetAlarm(s.Active())
	})

	mw.buttons = &mainWindowButtons{
		pollBtn: widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
			if mw.pollingRunning {
				mw.stopPolling()
				return
			}
			mw.startPolling()
		}),
		manualBtn:   widget.NewButtonWithIcon("Add reading", theme.ContentAddIcon(), mw.showManualEntry),
		historyBtn:  widget.NewButtonWithIcon("History", theme.FolderOpenIcon(), mw.showHistory),
		settingsBtn: widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), mw.showSettings),
		siteBtn: widget.NewButtonWithIcon("Open Nightscout", theme.ComputerIcon(), func() {
			url := widgets.NightscoutURL()
			if url == "" {
				mw.Status("no Nightscout URL configured")
				return
			}
			if err := open.Run(url); err != nil {
				log.Println("open nightscout:", err)
			}
		}),
	}

	mw.display.SetConfig(widgets.DisplayConfig())
	mw.watcher.Start()
	mw.unsub = ebus.SubscribeFunc(ebus.TopicReading, mw.onUpdate)

	go mw.ageTicker()

	mw.SetCloseIntercept(mw.closeIntercept)
	mw.SetContent(mw.Layout())
	mw.Resize(fyne.NewSize(480, 320))
	return mw
}

func (mw *MainWindow) Layout() fyne.CanvasObject {
	return container.NewBorder(
		nil,
		container.NewVBox(
			container.NewHBox(
				mw.buttons.pollBtn,
				mw.buttons.manualBtn,
				mw.buttons.historyBtn,
				mw.buttons.settingsBtn,
				mw.buttons.siteBtn,
			),
			mw.statusText,
		),
		nil,
		nil,
		mw.display,
	)
}

func (mw *MainWindow) Status(msg string) {
	log.Println(msg)
	mw.statusText.SetText(msg)
}

func (mw *MainWindow) onUpdate(u glucose.Update) {
	mw.display.SetUpdate(u)
	if mw.logWriter != nil {
		if err := mw.logWriter.Append(u); err != nil {
			log.Println("logfile append:", err)
		}
	}
}

func (mw *MainWindow) startPolling() {
	url := widgets.NightscoutURL()
	if url == "" {
		dialog.ShowInformation("Nightscout", "Configure the Nightscout URL in Settings first", mw)
		return
	}

	lw, err := logfile.NewWriter(widgets.LogDir())
	if err != nil {
		dialog.ShowError(fmt.Errorf("could not create logfile: %w", err), mw)
		return
	}
	mw.logWriter = lw
	mw.Status("Logging to " + lw.Name())

	mw.poller = nightscout.NewPoller(nightscout.PollerConfig{
		Client:    nightscout.New(url, widgets.NightscoutToken()),
		Interval:  time.Duration(widgets.PollIntervalSeconds()) * time.Second,
		OnMessage: mw.Status,
	})
	mw.poller.Start(context.Background())

	mw.pollingRunning = true
	mw.buttons.pollBtn.SetText("Stop")
	mw.buttons.pollBtn.SetIcon(theme.MediaStopIcon())
}

func (mw *MainWindow) stopPolling() {
	if mw.poller != nil {
		if err := mw.poller.Stop(); err != nil {
			log.Println("poller stop:", err)
		}
		mw.poller = nil
	}
	if mw.logWriter != nil {
		if err := mw.logWriter.Close(); err != nil {
			log.Println("logfile close:", err)
		}
		mw.logWriter = nil
	}
	mw.pollingRunning = false
	mw.buttons.pollBtn.SetText("Start")
	mw.buttons.pollBtn.SetIcon(theme.MediaPlayIcon())
	mw.Status("Not polling")
}

func (mw *MainWindow) showSettings() {
	d := dialog.NewCustomWithoutButtons("Settings", mw.settings, mw)
	mw.settings.OnClose = func() {
		d.Hide()
		mw.applySettings()
	}
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

func (mw *MainWindow) applySettings() {
	mw.display.SetConfig(widgets.DisplayConfig())
	low, high := widgets.ThresholdsMgDl()
	mw.watcher.SetThresholds(low, high)
	mw.watcher.SetMuted(widgets.MuteAlarms())
	if low >= high {
		mw.Status("thresholds misconfigured, colors and alarms disabled")
	}
}

// showManualEntry publishes a finger-stick value like any other reading.
func (mw *MainWindow) showManualEntry() {
	entry := numericentry.New()
	entry.PlaceHolder = "mg/dL"
	d := dialog.NewForm("Add manual reading", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Value (mg/dL)", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			v := int(entry.Value(0))
			if v <= 0 {
				mw.Status("invalid manual value")
				return
			}
			u := glucose.Update{
				Reading: glucose.Reading{
					Value:     &v,
					Timestamp: time.Now(),
					Kind:      glucose.KindManual,
				},
			}
			if err := ebus.Publish(ebus.TopicReading, u); err != nil {
				log.Println("manual publish:", err)
			}
		}, mw)
	d.Resize(fyne.NewSize(300, 140))
	d.Show()
}

// ageTicker keeps the "N min ago" label counting between readings.
func (mw *MainWindow) ageTicker() {
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-mw.quitTicker:
			return
		case <-t.C:
			mw.display.RefreshAge()
		}
	}
}

func (mw *MainWindow) closeIntercept() {
	mw.stopPolling()
	mw.watcher.Stop()
	if mw.unsub != nil {
		mw.unsub()
		mw.unsub = nil
	}
	close(mw.quitTicker)
	mw.Close()
}
