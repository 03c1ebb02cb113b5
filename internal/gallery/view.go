package gallery

import (
	"strings"
	"time"
)

// View is everything a host needs to draw the gallery. It is rebuilt after
// every mutation of the engine.
type View struct {
	ActiveCategory string
	Categories     []CategoryButton
	Cards          []Card
	Dots           []Dot

	HasActive bool
	Preview   PreviewFields

	BackgroundColor ColorInput
	AccentColor     ColorInput
	// Options offered by the active template, for hosts without a free color input.
	BackgroundChoices []string
	AccentChoices     []string

	Effects []EffectRow
	Style   PreviewStyle

	Committing bool
	Status     Status
	Navigation *Navigation
}

type CategoryButton struct {
	Key    string
	Label  string
	Active bool
}

type Card struct {
	TemplateID    string
	Name          string
	Description   string
	CategoryLabel string
	VisualStyle   string
	PreviewImage  string
	Active        bool
}

type Dot struct {
	TemplateID string
	Active     bool
}

type PreviewFields struct {
	Name        string
	Role        string
	Style       string
	Description string
	Category    string
	ID          string
}

type ColorInput struct {
	Value   string
	Display string
}

type EffectRow struct {
	Key       string
	Label     string
	Supported bool
	Checked   bool
	Disabled  bool
}

type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSaving  StatusKind = "saving"
	StatusSuccess StatusKind = "success"
	StatusOffline StatusKind = "offline"
	StatusError   StatusKind = "error"
)

type Status struct {
	Kind StatusKind
	Text string
}

// Navigation asks the host to move to the next step of the flow once Delay
// has elapsed.
type Navigation struct {
	URL   string
	Delay time.Duration
}

// Renderer receives a fresh View after every engine mutation.
type Renderer interface {
	Render(View)
}

type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

func (e *Engine) View() View {
	v := View{
		ActiveCategory: e.activeCategory,
		Committing:     e.commit.inFlight,
		Status:         e.status,
	}
	if e.navigation != nil {
		nav := *e.navigation
		v.Navigation = &nav
	}

	for _, c := range Categories(e.catalog) {
		v.Categories = append(v.Categories, CategoryButton{
			Key:    c.Key,
			Label:  c.Name,
			Active: c.Key == e.activeCategory,
		})
	}

	for _, t := range e.filtered {
		active := e.active != nil && t.TemplateID == e.active.TemplateID
		v.Cards = append(v.Cards, Card{
			TemplateID:    t.TemplateID,
			Name:          t.Name,
			Description:   t.Description,
			CategoryLabel: t.DisplayCategory(),
			VisualStyle:   t.VisualStyle,
			PreviewImage:  t.PreviewImage,
			Active:        active,
		})
		v.Dots = append(v.Dots, Dot{TemplateID: t.TemplateID, Active: active})
	}

	v.BackgroundColor = colorInput(e.state.BackgroundColor)
	v.AccentColor = colorInput(e.state.AccentColor)
	v.Style = DerivePreview(e.state)

	if e.active != nil {
		t := e.active
		v.HasActive = true
		v.Preview = PreviewFields{
			Name:        t.Name,
			Role:        t.VisualStyle,
			Style:       t.DisplayCategory(),
			Description: t.Description,
			Category:    t.DisplayCategory(),
			ID:          strings.ToUpper(t.TemplateID),
		}
		v.BackgroundChoices = append([]string(nil), t.CustomizationOptions.BackgroundColors...)
		v.AccentChoices = append([]string(nil), t.CustomizationOptions.AccentColors...)
		for _, fx := range Effects() {
			supported := t.Supports(fx.Key)
			v.Effects = append(v.Effects, EffectRow{
				Key:       fx.Key,
				Label:     fx.Name,
				Supported: supported,
				Checked:   supported && e.state.Effects[fx.Key],
				Disabled:  !supported,
			})
		}
	}

	return v
}

func colorInput(value string) ColorInput {
	return ColorInput{Value: value, Display: strings.ToUpper(value)}
}
