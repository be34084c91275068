package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Text is printed above the widget, empty for none.
	Text() string
	Height() float64
	// MoveTo places the widget below its text at panel row y.
	MoveTo(y float64)
}

type section struct {
	title   string
	widgets []Widget
}

// Panel is a scrollable column of titled sections.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Hidden        bool
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []*section
}

// NewPanel creates an empty panel.
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section, the next widgets are added to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, &section{title: title})
}

func (p *Panel) add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	s := p.sections[len(p.sections)-1]
	s.widgets = append(s.widgets, w)
	p.layout()
}

func (p *Panel) AddSlider(label string, min, max, step, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	s.Step = step
	s.Value = s.clamp(value)
	p.add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, label, onClick)
	p.add(b)
	return b
}

// layout moves every widget to its row for the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + 30 - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" {
			y += 25
		}
		for _, w := range s.widgets {
			w.MoveTo(y)
			y += w.Height()
		}
	}
}

func (p *Panel) contentHeight() float64 {
	h := 30.0
	for _, s := range p.sections {
		if s.title != "" {
			h += 25
		}
		for _, w := range s.widgets {
			h += w.Height()
		}
	}
	return h
}

// Update handles scrolling and input for every widget.
func (p *Panel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		maxScroll := max(p.contentHeight()-p.Height+10, 0)
		p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
		p.layout()
	}
	y := p.Y + 30 - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" {
			y += 25
		}
		for _, w := range s.widgets {
			// widgets scrolled out of the panel must not catch clicks on the world
			if p.visible(y, w.Height()) {
				w.Update()
			}
			y += w.Height()
		}
	}
}

func (p *Panel) visible(y, h float64) bool {
	return y >= p.Y+25 && y+h <= p.Y+p.Height
}

// Draw renders the panel and every visible widget.
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + 30 - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" {
			if p.visible(y, 20) {
				vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(y+3))
			}
			y += 25
		}
		for _, w := range s.widgets {
			if p.visible(y, w.Height()) {
				if text := w.Text(); text != "" {
					ebitenutil.DebugPrintAt(screen, text, int(p.X+10), int(y))
				}
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
