package popup

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

var (
	dialRingColor  = color.NRGBA{R: 219, G: 80, B: 58, A: 255}
	dialTrackColor = color.NRGBA{R: 128, G: 128, B: 128, A: 60}
	dialTextColor  = color.NRGBA{R: 219, G: 80, B: 58, A: 255}
)

const (
	dialMinSide  = float32(220)
	dialBandFrac = 0.12 // ring thickness relative to the radius
)

// Dial is the circular countdown indicator: a ring that empties clockwise
// from the top as the session runs down, with the remaining time in the
// center.
type Dial struct {
	widget.BaseWidget

	mu       sync.RWMutex
	fraction float64
	text     string
}

// NewDial creates a full dial showing placeholder text.
func NewDial() *Dial {
	dial := &Dial{fraction: 1, text: "--:--"}
	dial.ExtendBaseWidget(dial)
	return dial
}

// SetProgress updates the filled fraction (remaining/total) and the center
// label, then redraws.
func (dial *Dial) SetProgress(fraction float64, text string) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	dial.mu.Lock()
	dial.fraction = fraction
	dial.text = text
	dial.mu.Unlock()

	dial.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (dial *Dial) CreateRenderer() fyne.WidgetRenderer {
	label := canvas.NewText("--:--", dialTextColor)
	label.TextStyle = fyne.TextStyle{Bold: true}
	label.TextSize = 36
	label.Alignment = fyne.TextAlignCenter

	ring := canvas.NewRasterWithPixels(dial.pixel)

	return &dialRenderer{dial: dial, ring: ring, label: label}
}

// pixel paints one raster pixel: ring color inside the swept angle, track
// color on the rest of the band, transparent elsewhere.
func (dial *Dial) pixel(x, y, w, h int) color.Color {
	dial.mu.RLock()
	fraction := dial.fraction
	dial.mu.RUnlock()

	side := float64(w)
	if float64(h) < side {
		side = float64(h)
	}
	if side <= 0 {
		return color.Transparent
	}

	cx := float64(w) / 2
	cy := float64(h) / 2
	dx := float64(x) - cx
	dy := float64(y) - cy

	outer := side / 2
	inner := outer * (1 - dialBandFrac)
	dist := math.Hypot(dx, dy)
	if dist > outer || dist < inner {
		return color.Transparent
	}

	// Angle measured clockwise from 12 o'clock.
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle <= fraction*2*math.Pi {
		return dialRingColor
	}
	return dialTrackColor
}

type dialRenderer struct {
	dial  *Dial
	ring  *canvas.Raster
	label *canvas.Text
}

func (r *dialRenderer) Layout(size fyne.Size) {
	r.ring.Resize(size)
	r.ring.Move(fyne.NewPos(0, 0))

	labelSize := r.label.MinSize()
	r.label.Resize(labelSize)
	r.label.Move(fyne.NewPos(
		(size.Width-labelSize.Width)/2,
		(size.Height-labelSize.Height)/2,
	))
}

func (r *dialRenderer) MinSize() fyne.Size {
	return fyne.NewSize(dialMinSide, dialMinSide)
}

func (r *dialRenderer) Refresh() {
	r.dial.mu.RLock()
	r.label.Text = r.dial.text
	r.dial.mu.RUnlock()

	r.label.Refresh()
	r.ring.Refresh()
	r.Layout(r.dial.Size())
}

func (r *dialRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.ring, r.label}
}

func (r *dialRenderer) Destroy() {}
