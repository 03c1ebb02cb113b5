package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/selection"
	"xlink-template-picker/internal/session"
	"xlink-template-picker/internal/telegram"
)

// Messenger is the part of telegram.Client the handler uses.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	EditTextWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string, alert bool) error
	SendPhotoURL(chatID int64, url, caption string) error
}

// Coalescer runs only the last function added per key after a quiet
// period; debounce.Debouncer implements it.
type Coalescer interface {
	Add(key string, fn func())
}

type Options struct {
	Telegram  Messenger
	Sessions  *session.Store
	Committer *selection.Committer
	Logger    *slog.Logger
	// Coalescer, when set, batches rapid gallery edits per session.
	Coalescer Coalescer
	// Wait blocks for d or until ctx ends; defaults to a timer.
	Wait      func(ctx context.Context, d time.Duration) error
}

type Handler struct {
	tg        Messenger
	sessions  *session.Store
	committer *selection.Committer
	logger    *slog.Logger
	coalescer Coalescer
	wait      func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wait := opts.Wait
	if wait == nil {
		wait = sleepContext
	}

	return &Handler{
		tg:        opts.Telegram,
		sessions:  opts.Sessions,
		committer: opts.Committer,
		logger:    logger,
		coalescer: opts.Coalescer,
		wait:      wait,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	if msg.IsCommand() {
		return h.handleCommand(ctx, msg.Chat.ID, msg.From.ID, msg)
	}
	if strings.TrimSpace(msg.Text) != "" {
		return h.tg.SendText(msg.Chat.ID, "Send /start to open the template gallery.")
	}
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, userID int64, msg *tgbotapi.Message) error {
	key := sessionKey(chatID, userID)

	switch msg.Command() {
	case "start", "gallery":
		view := h.sessions.Start(ctx, key)
		h.sessions.UpdateHost(key, func(hs *session.HostState) { hs.Menu = menuMain })
		return h.sendGallery(chatID, userID, key, view)
	case "help":
		return h.tg.SendText(chatID,
			"🪪 Xlink template gallery\n\n"+
				"/start - Open the gallery\n"+
				"/bg <#hex> - Set a custom background color\n"+
				"/accent <#hex> - Set a custom accent color\n"+
				"/reset - Restore the template defaults\n"+
				"/help - This message",
		)
	case "reset":
		view := h.sessions.Update(ctx, key, func(e *gallery.Engine) { e.Reset() })
		return h.renderGallery(chatID, userID, key, view)
	case "bg", "accent":
		value := strings.TrimSpace(msg.CommandArguments())
		if value == "" {
			return h.tg.SendText(chatID, "Usage: /"+msg.Command()+" #0A0F1F")
		}
		kind := gallery.ActionSetBackground
		if msg.Command() == "accent" {
			kind = gallery.ActionSetAccent
		}
		var err error
		view := h.sessions.Update(ctx, key, func(e *gallery.Engine) {
			err = e.Dispatch(gallery.Action{Kind: kind, Value: value})
		})
		if err != nil {
			return err
		}
		return h.renderGallery(chatID, userID, key, view)
	default:
		return h.tg.SendText(chatID, "Unknown command. Use /help.")
	}
}

func (h *Handler) sendGallery(chatID, userID int64, key string, view gallery.View) error {
	menu := h.sessions.Host(key).Menu
	msgID, err := h.tg.SendTextWithKeyboard(chatID, galleryText(view), galleryKeyboard(userID, menu, view))
	if err != nil {
		return err
	}
	h.sessions.UpdateHost(key, func(hs *session.HostState) { hs.MessageID = msgID })
	return nil
}

// renderGallery edits the existing gallery message and falls back to a new
// one when the edit fails.
func (h *Handler) renderGallery(chatID, userID int64, key string, view gallery.View) error {
	hs := h.sessions.Host(key)
	text := galleryText(view)
	kb := galleryKeyboard(userID, hs.Menu, view)

	if hs.MessageID != 0 {
		if err := h.tg.EditTextWithKeyboard(chatID, hs.MessageID, text, kb); err == nil {
			return nil
		}
	}
	return h.sendGallery(chatID, userID, key, view)
}

// renderLater schedules an edit with the session's latest view. Without a
// coalescer it renders immediately.
func (h *Handler) renderLater(chatID, userID int64, key string, view gallery.View) error {
	if h.coalescer == nil {
		return h.renderGallery(chatID, userID, key, view)
	}
	h.coalescer.Add(key, func() {
		if !h.sessions.Exists(key) {
			return
		}
		latest := h.sessions.Get(context.Background(), key)
		if err := h.renderGallery(chatID, userID, key, latest); err != nil {
			h.logger.Error("render gallery failed", "chat_id", chatID, "err", err)
		}
	})
	return nil
}

// followNavigation waits out the navigation delay, then hands the user the
// next step of the flow.
func (h *Handler) followNavigation(ctx context.Context, chatID int64, nav *gallery.Navigation) error {
	if nav == nil {
		return nil
	}
	if err := h.wait(ctx, nav.Delay); err != nil {
		return err
	}
	return h.tg.SendText(chatID, fmt.Sprintf("➡️ Next step: create your card\n%s", nav.URL))
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
