package gallery

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

type ActionKind string

const (
	ActionSelectCategory ActionKind = "select_category"
	ActionSelectTemplate ActionKind = "select_template"
	ActionSetBackground  ActionKind = "set_background"
	ActionSetAccent      ActionKind = "set_accent"
	ActionToggleEffect   ActionKind = "toggle_effect"
	ActionReset          ActionKind = "reset"
)

// Action is one user interaction. Value carries the category, template id,
// color or effect key depending on Kind; Enabled is used by toggle_effect.
type Action struct {
	Kind    ActionKind
	Value   string
	Enabled bool
}

// Dispatch applies a single action. Misses such as an unknown template id or
// an unsupported effect are not errors; only an unknown kind is.
func (e *Engine) Dispatch(a Action) error {
	switch a.Kind {
	case ActionSelectCategory:
		e.SelectCategory(a.Value)
	case ActionSelectTemplate:
		e.SelectTemplate(a.Value)
	case ActionSetBackground:
		e.SetBackgroundColor(a.Value)
	case ActionSetAccent:
		e.SetAccentColor(a.Value)
	case ActionToggleEffect:
		e.ToggleEffect(a.Value, a.Enabled)
	case ActionReset:
		e.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return nil
}
