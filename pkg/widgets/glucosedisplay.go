package widgets

import (
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/dribbe/glucomon/pkg/glucose"
	"github.com/dribbe/glucomon/pkg/presenter"
)

const piDiv180 = math.Pi / 180

var displayColors = map[presenter.Color]color.RGBA{
	presenter.ColorPrimary: {R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF},
	presenter.ColorRed:     {R: 0xF7, G: 0x0A, B: 0x0A, A: 0xFF},
	presenter.ColorGreen:   {R: 0x2C, G: 0xA5, B: 0x00, A: 0xFF},
	presenter.ColorYellow:  {R: 0xE5, G: 0xC0, B: 0x00, A: 0xFF},
}

type GlucoseDisplayConfig struct {
	MinSize fyne.Size // default 300x180
}

// GlucoseDisplay draws the current reading: big value, trend arrow,
// delta, age and the unit. All display decisions come from the
// presenter, this widget only places and paints canvas objects.
type GlucoseDisplay struct {
	widget.BaseWidget

	valueText *canvas.Text
	deltaText *canvas.Text
	ageText   *canvas.Text
	unitText  *canvas.Text

	arrow      *canvas.Line
	arrowLeft  *canvas.Line
	arrowRight *canvas.Line

	container *fyne.Container

	mu          sync.Mutex
	update      glucose.Update
	cfg         presenter.Config
	alarmActive bool

	minsize fyne.Size
	size    fyne.Size

	arrowCenter fyne.Position
	arrowLength float32
}

func NewGlucoseDisplay(cfg GlucoseDisplayConfig) *GlucoseDisplay {
	g := &GlucoseDisplay{
		minsize: fyne.NewSize(300, 180),
		cfg: presenter.Config{
			Unit: glucose.UnitMgDl,
			Low:  70,
			High: 180,
		},
	}
	g.ExtendBaseWidget(g)
	if cfg.MinSize.Width > 0 && cfg.MinSize.Height > 0 {
		g.minsize = cfg.MinSize
	}

	g.valueText = &canvas.Text{Text: "---", Color: displayColors[presenter.ColorPrimary], TextSize: 96}
	g.valueText.TextStyle.Monospace = true
	g.valueText.Alignment = fyne.TextAlignCenter

	g.deltaText = &canvas.Text{Color: displayColors[presenter.ColorPrimary], TextSize: 28}
	g.deltaText.TextStyle.Monospace = true
	g.deltaText.Alignment = fyne.TextAlignCenter

	g.ageText = &canvas.Text{Text: "waiting for data", Color: color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}, TextSize: 16}
	g.ageText.TextStyle.Monospace = true
	g.ageText.Alignment = fyne.TextAlignCenter

	g.unitText = &canvas.Text{Text: g.cfg.Unit.String(), Color: color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}, TextSize: 16}
	g.unitText.TextStyle.Monospace = true
	g.unitText.Alignment = fyne.TextAlignCenter

	arrowColor := displayColors[presenter.ColorPrimary]
	g.arrow = &canvas.Line{StrokeColor: arrowColor, StrokeWidth: 4}
	g.arrowLeft = &canvas.Line{StrokeColor: arrowColor, StrokeWidth: 4}
	g.arrowRight = &canvas.Line{StrokeColor: arrowColor, StrokeWidth: 4}

	g.container = container.NewWithoutLayout(
		g.valueText, g.deltaText, g.ageText, g.unitText,
		g.arrow, g.arrowLeft, g.arrowRight,
	)
	return g
}

func (g *GlucoseDisplay) SetUpdate(u glucose.Update) {
	g.mu.Lock()
	g.update = u
	g.mu.Unlock()
	g.render()
}

func (g *GlucoseDisplay) SetConfig(cfg presenter.Config) {
	g.mu.Lock()
	g.cfg = cfg
	g.mu.Unlock()
	g.render()
}

func (g *GlucoseDisplay) SetAlarm(active bool) {
	g.mu.Lock()
	g.alarmActive = active
	g.mu.Unlock()
	g.render()
}

// RefreshAge re-renders the age label, driven by the window ticker so
// "5 min ago" keeps counting between polls.
func (g *GlucoseDisplay) RefreshAge() {
	g.render()
}

func (g *GlucoseDisplay) render() {
	g.mu.Lock()
	m := presenter.Render(g.update, g.cfg, g.alarmActive, time.Now())
	unit := g.cfg.Unit
	hasReading := g.update.Reading.Value != nil || !g.update.Reading.Timestamp.IsZero()
	g.mu.Unlock()

	col := displayColors[m.Color]

	if m.ValueText == "" {
		g.valueText.Text = "---"
	} else {
		g.valueText.Text = m.ValueText
	}
	g.valueText.Color = col
	g.valueText.Refresh()

	g.deltaText.Text = m.DeltaText
	g.deltaText.Refresh()

	if hasReading {
		g.ageText.Text = m.AgeText
	}
	g.ageText.Refresh()

	g.unitText.Text = unit.String()
	g.unitText.Refresh()

	g.arrow.StrokeColor = col
	g.arrowLeft.StrokeColor = col
	g.arrowRight.StrokeColor = col
	g.rotateArrow(m.ArrowAngle)
}

// rotateArrow points the arrow at angle degrees, 0 up and 180 down.
func (g *GlucoseDisplay) rotateArrow(angle float64) {
	rad := angle * piDiv180
	sin := float32(math.Sin(rad))
	cos := float32(math.Cos(rad))

	half := g.arrowLength * .5
	tip := fyne.NewPos(g.arrowCenter.X+half*sin, g.arrowCenter.Y-half*cos)
	tail := fyne.NewPos(g.arrowCenter.X-half*sin, g.arrowCenter.Y+half*cos)

	g.arrow.Position1 = tail
	g.arrow.Position2 = tip
	g.arrow.Refresh()

	headLen := g.arrowLength * .3
	for i, head := range []*canvas.Line{g.arrowLeft, g.arrowRight} {
		off := 150.0
		if i == 1 {
			off = -150.0
		}
		hrad := (angle + off) * piDiv180
		hsin := float32(math.Sin(hrad))
		hcos := float32(math.Cos(hrad))
		head.Position1 = tip
		head.Position2 = fyne.NewPos(tip.X+headLen*hsin, tip.Y-headLen*hcos)
		head.Refresh()
	}
}

func (g *GlucoseDisplay) CreateRenderer() fyne.WidgetRenderer {
	return &glucoseDisplayRenderer{g: g}
}

type glucoseDisplayRenderer struct {
	g    *GlucoseDisplay
	size fyne.Size
}

func (r *glucoseDisplayRenderer) Layout(space fyne.Size) {
	if r.size.Width == space.Width && r.size.Height == space.Height {
		return
	}
	r.size = space
	log.Println("glucosedisplay.Layout", space.Width, space.Height)
	g := r.g
	g.size = space
	g.container.Resize(space)

	// value on the left two thirds, arrow column on the right
	valueWidth := space.Width * 2 / 3
	arrowWidth := space.Width - valueWidth

	g.valueText.TextSize = space.Height * .45
	g.valueText.Move(fyne.NewPos(0, space.Height*.05))
	g.valueText.Resize(fyne.NewSize(valueWidth, space.Height*.55))
	g.valueText.Refresh()

	g.unitText.TextSize = space.Height * .09
	g.unitText.Move(fyne.NewPos(0, space.Height*.62))
	g.unitText.Resize(fyne.NewSize(valueWidth, space.Height*.12))
	g.unitText.Refresh()

	g.ageText.TextSize = space.Height * .1
	g.ageText.Move(fyne.NewPos(0, space.Height*.82))
	g.ageText.Resize(fyne.NewSize(space.Width, space.Height*.14))
	g.ageText.Refresh()

	g.arrowCenter = fyne.NewPos(valueWidth+arrowWidth*.5, space.Height*.3)
	g.arrowLength = fyne.Min(arrowWidth, space.Height) * .4

	g.deltaText.TextSize = space.Height * .14
	g.deltaText.Move(fyne.NewPos(valueWidth, space.Height*.55))
	g.deltaText.Resize(fyne.NewSize(arrowWidth, space.Height*.2))
	g.deltaText.Refresh()

	g.render()
}

func (r *glucoseDisplayRenderer) MinSize() fyne.Size {
	return r.g.minsize
}

func (r *glucoseDisplayRenderer) Refresh() {
}

func (r *glucoseDisplayRenderer) Destroy() {
}

func (r *glucoseDisplayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.g.container}
}
