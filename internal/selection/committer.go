package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/localstore"
	"xlink-template-picker/internal/metrics"
)

// localWriteTimeout bounds the fallback write, which runs detached from the
// caller's context so a remote timeout still leaves a local copy.
const localWriteTimeout = 5 * time.Second

// Saver persists a selection remotely; xlinkapi.Client implements it.
type Saver interface {
	SaveSelection(ctx context.Context, sel gallery.Selection) error
}

// LocalStore is the durable fallback; localstore.Store implements it.
type LocalStore interface {
	Set(ctx context.Context, key string, value []byte) error
}

type Options struct {
	Remote Saver
	Local  LocalStore
	// Key defaults to localstore.SelectedTemplateKey.
	Key    string
	Logger *slog.Logger
}

// Committer prefers the remote store and falls back to the local one. The
// two are never reconciled.
type Committer struct {
	remote Saver
	local  LocalStore
	key    string
	logger *slog.Logger
}

func New(opts Options) *Committer {
	key := opts.Key
	if key == "" {
		key = localstore.SelectedTemplateKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Committer{
		remote: opts.Remote,
		local:  opts.Local,
		key:    key,
		logger: logger,
	}
}

// Commit returns OutcomeRemote or OutcomeLocal on success. OutcomeFailed
// comes with the error that prevented the local write.
func (c *Committer) Commit(ctx context.Context, sel gallery.Selection) (gallery.Outcome, error) {
	start := time.Now()
	outcome, err := c.commit(ctx, sel)
	metrics.SelectionCommitted(string(outcome), time.Since(start).Seconds())
	return outcome, err
}

func (c *Committer) commit(ctx context.Context, sel gallery.Selection) (gallery.Outcome, error) {
	remoteErr := errors.New("no remote configured")
	if c.remote != nil {
		remoteErr = c.remote.SaveSelection(ctx, sel)
		if remoteErr == nil {
			c.logger.Info("selection saved", "template_id", sel.TemplateID)
			return gallery.OutcomeRemote, nil
		}
	}
	c.logger.Warn("selection fallback", "template_id", sel.TemplateID, "err", remoteErr)

	if c.local == nil {
		return gallery.OutcomeFailed, fmt.Errorf("save selection: %w", remoteErr)
	}

	payload, err := json.Marshal(sel)
	if err != nil {
		return gallery.OutcomeFailed, fmt.Errorf("encode selection: %w", err)
	}
	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), localWriteTimeout)
	defer cancel()
	if err := c.local.Set(lctx, c.key, payload); err != nil {
		c.logger.Error("local selection save failed", "template_id", sel.TemplateID, "err", err)
		return gallery.OutcomeFailed, fmt.Errorf("save selection locally: %w", err)
	}
	return gallery.OutcomeLocal, nil
}

// Engine is the slice of gallery.Engine a commit needs. Access serialises
// calls when the engine is shared.
type Engine interface {
	BeginCommit() (gallery.Selection, string, bool)
	FinishCommit(token string, outcome gallery.Outcome)
}

// Run drives one commit round trip against an engine. begin and finish are
// invoked through access so that hosts can hold their session lock only
// around engine calls, never around network I/O. It reports false when the
// engine refused to start a commit.
func (c *Committer) Run(ctx context.Context, access func(func(Engine))) (gallery.Outcome, bool) {
	var (
		sel   gallery.Selection
		token string
		ok    bool
	)
	access(func(e Engine) { sel, token, ok = e.BeginCommit() })
	if !ok {
		return "", false
	}

	outcome, err := c.Commit(ctx, sel)
	if err != nil {
		c.logger.Error("commit failed", "err", err)
	}

	access(func(e Engine) { e.FinishCommit(token, outcome) })
	return outcome, true
}
