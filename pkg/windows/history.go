package windows

import (
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	sdialog "github.com/sqweek/dialog"

	"github.com/dribbe/glucomon/pkg/logfile"
	"github.com/dribbe/glucomon/pkg/presenter"
	"github.com/dribbe/glucomon/pkg/widgets"
)

// showHistory opens a recorded CSV and lists its readings formatted the
// same way the live display would have shown them.
func (mw *MainWindow) showHistory() {
	filename, err := sdialog.File().Filter("glucomon log", "csv").Title("Open log").Load()
	if err != nil {
		if errors.Is(err, sdialog.ErrCancelled) {
			return
		}
		log.Println(err)
		return
	}

	lf, err := logfile.NewFromCSVLogfile(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("could not open %s: %w", filename, err), mw)
		return
	}

	cfg := widgets.DisplayConfig()

	w := mw.app.NewWindow("History - " + filename)
	list := widget.NewList(
		func() int {
			return lf.Len()
		},
		func() fyne.CanvasObject {
			return container.NewGridWithColumns(4,
				widget.NewLabel(""), widget.NewLabel(""), widget.NewLabel(""), widget.NewLabel(""),
			)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			rec := lf.Seek(id)
			if rec == nil {
				return
			}
			row := o.(*fyne.Container)
			value := presenter.FormatValue(rec.Reading(), cfg.Unit)
			if value == "" {
				value = "---"
			}
			delta := ""
			if rec.Delta != nil {
				delta = presenter.FormatDelta(*rec.Delta, cfg.Unit, cfg.ShowDelta)
			}
			row.Objects[0].(*widget.Label).SetText(rec.Time.Format("15:04:05"))
			row.Objects[1].(*widget.Label).SetText(value + " " + cfg.Unit.String())
			row.Objects[2].(*widget.Label).SetText(delta)
			row.Objects[3].(*widget.Label).SetText(rec.Trend.String())
		},
	)

	span := "empty log"
	if lf.Len() > 0 {
		span = fmt.Sprintf("%d readings, %s - %s",
			lf.Len(),
			lf.Start().Format("2006-01-02 15:04"),
			lf.End().Format("15:04"),
		)
	}

	w.SetContent(container.NewBorder(widget.NewLabel(span), nil, nil, nil, list))
	w.Resize(fyne.NewSize(480, 520))
	w.Show()
}
