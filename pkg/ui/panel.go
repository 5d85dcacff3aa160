package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is the common contract for panel widgets.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
}

type panelRow struct {
	label  string
	widget Widget
	height float64
}

// Panel stacks labeled widgets vertically inside a framed box. Layout is
// fixed top-down in insertion order.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string

	rows    []panelRow
	nextY   float64
	BGColor color.RGBA
}

// NewPanel creates a panel anchored at (x, y).
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Title:   title,
		nextY:   y + 30,
		BGColor: color.RGBA{R: 40, G: 40, B: 45, A: 230},
	}
}

// AddSlider appends a labeled slider and returns it for value reads.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.nextY+18, p.Width-20, label, min, max, value)
	p.rows = append(p.rows, panelRow{label: label, widget: s, height: 38})
	p.nextY += 38
	return s
}

// AddCheckbox appends a labeled checkbox and returns it for value reads.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, p.nextY+16, label, value)
	p.rows = append(p.rows, panelRow{label: label, widget: c, height: 40})
	p.nextY += 40
	return c
}

// AddButton appends a full-width button.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.nextY+4, p.Width-20, 24, label, onClick)
	p.rows = append(p.rows, panelRow{label: "", widget: b, height: 34})
	p.nextY += 34
	return b
}

// Update handles input for all widgets.
func (p *Panel) Update() {
	for _, row := range p.rows {
		row.widget.Update()
	}
}

// Draw renders the panel frame, labels and widgets.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, color.RGBA{R: 100, G: 100, B: 110, A: 255}, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + 30
	for _, row := range p.rows {
		if row.label != "" {
			ebitenutil.DebugPrintAt(screen, row.label, int(p.X+10), int(y))
		}
		row.widget.Draw(screen)
		y += row.height
	}
}
