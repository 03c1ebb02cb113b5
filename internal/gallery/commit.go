package gallery

import (
	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeRemote Outcome = "remote"
	OutcomeLocal  Outcome = "local"
	OutcomeFailed Outcome = "failed"
)

const (
	statusSavingText  = "Saving your selection..."
	statusSuccessText = "Template selected! Moving on to card creation..."
	statusOfflineText = "Saved in offline mode. Your choice will be loaded at the next step."
	statusErrorText   = "Your selection could not be saved. Please try again."
)

type commitState struct {
	inFlight bool
	token    string
}

// BeginCommit snapshots the selection payload and marks a commit in flight.
// It reports false when nothing is active or another commit is still
// running. The returned token must be handed back to FinishCommit.
func (e *Engine) BeginCommit() (Selection, string, bool) {
	if e.active == nil || e.commit.inFlight {
		return Selection{}, "", false
	}

	e.commit = commitState{inFlight: true, token: uuid.NewString()}
	e.status = Status{Kind: StatusSaving, Text: statusSavingText}
	e.navigation = nil

	sel := Selection{
		TemplateID:    e.active.TemplateID,
		Customization: e.state.clone(),
	}
	e.render()
	return sel, e.commit.token, true
}

// FinishCommit records the outcome of the commit identified by token.
// Unknown or stale tokens are ignored.
func (e *Engine) FinishCommit(token string, outcome Outcome) {
	if !e.commit.inFlight || token == "" || token != e.commit.token {
		return
	}
	e.commit = commitState{}

	switch outcome {
	case OutcomeRemote:
		e.status = Status{Kind: StatusSuccess, Text: statusSuccessText}
		e.navigation = &Navigation{URL: e.nextStepURL, Delay: e.navigateDelay}
	case OutcomeLocal:
		e.status = Status{Kind: StatusOffline, Text: statusOfflineText}
	default:
		e.status = Status{Kind: StatusError, Text: statusErrorText}
	}
	e.render()
}

func (e *Engine) Committing() bool {
	return e.commit.inFlight
}
