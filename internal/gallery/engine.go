package gallery

import (
	"time"
)

const defaultNavigateDelay = time.Second

type Options struct {
	Renderer      Renderer
	NextStepURL   string
	NavigateDelay time.Duration
}

// Engine owns the catalog, the selection context and the customization state
// of one gallery session. It is not safe for concurrent use; multi-user hosts
// serialise access per session.
type Engine struct {
	catalog        []Template
	filtered       []*Template
	activeCategory string
	active         *Template

	state      CustomizationState
	status     Status
	navigation *Navigation
	commit     commitState

	renderer      Renderer
	nextStepURL   string
	navigateDelay time.Duration
}

func New(opts Options) *Engine {
	delay := opts.NavigateDelay
	if delay <= 0 {
		delay = defaultNavigateDelay
	}
	nextStep := opts.NextStepURL
	if nextStep == "" {
		nextStep = "create.html"
	}

	return &Engine{
		activeCategory: CategoryAll,
		state:          defaultCustomization(),
		renderer:       opts.Renderer,
		nextStepURL:    nextStep,
		navigateDelay:  delay,
	}
}

// Load installs catalog, resets the filter to "all" and activates the first
// template. The engine keeps its own copy of the slice.
func (e *Engine) Load(catalog []Template) {
	e.catalog = append([]Template(nil), catalog...)
	e.activeCategory = CategoryAll
	e.filtered = Filter(e.catalog, CategoryAll)
	e.active = nil
	e.render()

	if len(e.filtered) > 0 {
		e.SelectTemplate(e.filtered[0].TemplateID)
	}
}

func (e *Engine) Catalog() []Template {
	return append([]Template(nil), e.catalog...)
}

func (e *Engine) ActiveCategory() string {
	return e.activeCategory
}

// Filtered returns the templates visible under the active category.
func (e *Engine) Filtered() []Template {
	out := make([]Template, 0, len(e.filtered))
	for _, t := range e.filtered {
		out = append(out, *t)
	}
	return out
}

// Active returns the active template, or false when none is active.
func (e *Engine) Active() (Template, bool) {
	if e.active == nil {
		return Template{}, false
	}
	return *e.active, true
}

// Customization returns a copy of the current customization state.
func (e *Engine) Customization() CustomizationState {
	return e.state.clone()
}

// SelectCategory applies a category filter and activates the first match.
// With no match the active template is left as it was.
func (e *Engine) SelectCategory(category string) {
	e.activeCategory = category
	e.filtered = Filter(e.catalog, category)
	e.render()

	if len(e.filtered) > 0 {
		e.SelectTemplate(e.filtered[0].TemplateID)
	}
}

// SelectTemplate activates id, looking in the filtered view first and then
// in the whole catalog. Unknown ids are ignored and report false.
func (e *Engine) SelectTemplate(id string) bool {
	t := e.lookup(id)
	if t == nil {
		return false
	}

	e.active = t
	opts := t.CustomizationOptions
	if len(opts.BackgroundColors) > 0 {
		e.state.BackgroundColor = opts.BackgroundColors[0]
	}
	if len(opts.AccentColors) > 0 {
		e.state.AccentColor = opts.AccentColors[0]
	}
	if e.state.Effects == nil {
		e.state.Effects = make(map[string]bool, len(opts.Effects))
	}
	for k, v := range opts.Effects {
		e.state.Effects[k] = v
	}

	e.render()
	return true
}

func (e *Engine) lookup(id string) *Template {
	for _, t := range e.filtered {
		if t.TemplateID == id {
			return t
		}
	}
	for i := range e.catalog {
		if e.catalog[i].TemplateID == id {
			return &e.catalog[i]
		}
	}
	return nil
}

func (e *Engine) SetBackgroundColor(value string) {
	e.state.BackgroundColor = value
	e.render()
}

func (e *Engine) SetAccentColor(value string) {
	e.state.AccentColor = value
	e.render()
}

// ToggleEffect enables or disables an effect supported by the active
// template. Unsupported effects are refused.
func (e *Engine) ToggleEffect(key string, enabled bool) bool {
	if e.active == nil || !e.active.Supports(key) {
		return false
	}
	e.state.Effects[key] = enabled
	e.render()
	return true
}

// Reset restores the active template's defaults and clears the status line.
func (e *Engine) Reset() {
	if e.active == nil {
		return
	}
	e.status = Status{}
	e.navigation = nil
	e.SelectTemplate(e.active.TemplateID)
}

func (e *Engine) render() {
	if e.renderer == nil {
		return
	}
	e.renderer.Render(e.View())
}
