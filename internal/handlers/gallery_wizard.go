package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/session"
)

const (
	galleryCallbackPrefix = "gl"
	maxCallbackBytes      = 64
)

const (
	menuMain    = "main"
	menuColors  = "colors"
	menuEffects = "effects"
)

type callback struct {
	OwnerID int64
	Action  string
	Args    []string
}

// parseCallback decodes "gl:<owner>:<action>[:args...]". Template ids may
// contain colons, so everything after the action is kept as given.
func parseCallback(data string) (callback, bool) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, galleryCallbackPrefix+":") {
		return callback{}, false
	}

	parts := strings.SplitN(data, ":", 4)
	if len(parts) < 3 || parts[2] == "" {
		return callback{}, false
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return callback{}, false
	}

	c := callback{OwnerID: ownerID, Action: parts[2]}
	if len(parts) == 4 {
		c.Args = []string{parts[3]}
	}
	return c, true
}

func (c callback) arg() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}
	c, ok := parseCallback(q.Data)
	if !ok {
		return nil
	}
	if c.OwnerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This gallery belongs to someone else.", true)
		return nil
	}

	chatID := q.Message.Chat.ID
	key := sessionKey(chatID, c.OwnerID)
	if !h.sessions.Exists(key) {
		// Session expired; start over with a fresh message.
		_ = h.tg.AnswerCallback(q.ID, "Session expired, reopening the gallery.", false)
		view := h.sessions.Start(ctx, key)
		h.sessions.UpdateHost(key, func(hs *session.HostState) { hs.Menu = menuMain })
		return h.sendGallery(chatID, c.OwnerID, key, view)
	}
	h.sessions.UpdateHost(key, func(hs *session.HostState) { hs.MessageID = q.Message.MessageID })

	switch c.Action {
	case "confirm":
		_ = h.tg.AnswerCallback(q.ID, "Saving…", false)
		return h.confirm(ctx, chatID, c.OwnerID, key)
	case "image":
		view := h.sessions.Get(ctx, key)
		if !view.HasActive {
			_ = h.tg.AnswerCallback(q.ID, "No template selected.", false)
			return nil
		}
		image := activeCard(view).PreviewImage
		if image == "" {
			_ = h.tg.AnswerCallback(q.ID, "This template has no preview image.", false)
			return nil
		}
		_ = h.tg.AnswerCallback(q.ID, "OK", false)
		return h.tg.SendPhotoURL(chatID, image, view.Preview.Name)
	case "menu":
		menu := c.arg()
		switch menu {
		case menuColors, menuEffects:
		default:
			menu = menuMain
		}
		h.sessions.UpdateHost(key, func(hs *session.HostState) { hs.Menu = menu })
		_ = h.tg.AnswerCallback(q.ID, "", false)
		return h.renderLater(chatID, c.OwnerID, key, h.sessions.Get(ctx, key))
	}

	var notice string
	view := h.sessions.Update(ctx, key, func(e *gallery.Engine) {
		notice = applyCallback(e, c)
	})
	_ = h.tg.AnswerCallback(q.ID, notice, notice != "" && c.Action == "fx")
	return h.renderLater(chatID, c.OwnerID, key, view)
}

// applyCallback maps a button press onto engine actions and returns a
// notice for the callback answer.
func applyCallback(e *gallery.Engine, c callback) string {
	view := e.View()

	switch c.Action {
	case "cat":
		e.SelectCategory(c.arg())
	case "tpl", "dot":
		if !e.SelectTemplate(c.arg()) {
			return "Template not found."
		}
	case "tpi":
		idx, err := strconv.Atoi(c.arg())
		if err != nil || idx < 0 || idx >= len(view.Cards) {
			return "Template not found."
		}
		e.SelectTemplate(view.Cards[idx].TemplateID)
	case "bg":
		color, ok := choiceAt(view.BackgroundChoices, c.arg())
		if !ok {
			return "Unknown color."
		}
		e.SetBackgroundColor(color)
	case "ac":
		color, ok := choiceAt(view.AccentChoices, c.arg())
		if !ok {
			return "Unknown color."
		}
		e.SetAccentColor(color)
	case "fx":
		row, ok := effectRow(view, c.arg())
		if !ok || !e.ToggleEffect(row.Key, !row.Checked) {
			return "This effect is not available for the selected template."
		}
	case "reset":
		e.Reset()
		return "Defaults restored."
	}
	return ""
}

func (h *Handler) confirm(ctx context.Context, chatID, userID int64, key string) error {
	view, started := h.sessions.Commit(ctx, key, h.committer)
	if !started {
		if view.Committing {
			return nil
		}
		return h.tg.SendText(chatID, "Pick a template first.")
	}

	h.logger.Info("template committed", "chat_id", chatID, "user_id", userID, "status", view.Status.Kind)
	if err := h.renderGallery(chatID, userID, key, view); err != nil {
		return err
	}
	return h.followNavigation(ctx, chatID, view.Navigation)
}

func choiceAt(choices []string, arg string) (string, bool) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(choices) {
		return "", false
	}
	return choices[idx], true
}

func effectRow(view gallery.View, key string) (gallery.EffectRow, bool) {
	for _, row := range view.Effects {
		if row.Key == key {
			return row, true
		}
	}
	return gallery.EffectRow{}, false
}

func activeCard(view gallery.View) gallery.Card {
	for _, c := range view.Cards {
		if c.Active {
			return c
		}
	}
	return gallery.Card{}
}

func galleryText(view gallery.View) string {
	var b strings.Builder
	b.WriteString("🪪 Xlink template gallery\n\n")
	b.WriteString(fmt.Sprintf("Category: %s\n", gallery.CategoryLabel(view.ActiveCategory)))
	if len(view.Cards) == 0 {
		b.WriteString("No templates in this category.\n")
	}

	if !view.HasActive {
		b.WriteString("\nNo template selected.\n")
		return strings.TrimSpace(b.String())
	}

	p := view.Preview
	b.WriteString(fmt.Sprintf("\n%s  (%s)\n", p.Name, p.ID))
	if p.Role != "" {
		b.WriteString(fmt.Sprintf("Style: %s\n", p.Role))
	}
	b.WriteString(fmt.Sprintf("Category: %s\n", p.Category))
	if p.Description != "" {
		b.WriteString(truncateLine(p.Description, 160) + "\n")
	}

	b.WriteString(fmt.Sprintf("\nBackground: %s\n", view.BackgroundColor.Display))
	b.WriteString(fmt.Sprintf("Accent: %s\n", view.AccentColor.Display))

	var on []string
	for _, row := range view.Effects {
		if row.Checked {
			on = append(on, row.Label)
		}
	}
	if len(on) == 0 {
		b.WriteString("Effects: none\n")
	} else {
		b.WriteString("Effects: " + strings.Join(on, ", ") + "\n")
	}

	if view.Status.Kind != gallery.StatusNone {
		b.WriteString("\n" + statusIcon(view.Status.Kind) + " " + view.Status.Text + "\n")
	}

	return strings.TrimSpace(b.String())
}

func galleryKeyboard(ownerID int64, menu string, view gallery.View) tgbotapi.InlineKeyboardMarkup {
	if !view.HasActive {
		return categoriesOnlyKeyboard(ownerID, view)
	}
	switch menu {
	case menuColors:
		return colorsKeyboard(ownerID, view)
	case menuEffects:
		return effectsKeyboard(ownerID, view)
	default:
		return mainKeyboard(ownerID, view)
	}
}

func categoryRows(ownerID int64, view gallery.View) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range view.Categories {
		label := c.Label
		if c.Active {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "cat", c.Key)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func categoriesOnlyKeyboard(ownerID int64, view gallery.View) tgbotapi.InlineKeyboardMarkup {
	rows := categoryRows(ownerID, view)
	if len(rows) == 0 {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("↺ Reset", cb(ownerID, "reset")),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainKeyboard(ownerID int64, view gallery.View) tgbotapi.InlineKeyboardMarkup {
	rows := categoryRows(ownerID, view)

	for i, card := range view.Cards {
		label := card.Name
		if card.Active {
			label = "✅ " + label
		}
		data := cb(ownerID, "tpl", card.TemplateID)
		if len(data) > maxCallbackBytes {
			data = cb(ownerID, "tpi", strconv.Itoa(i))
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		})
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🎨 Colors", cb(ownerID, "menu", menuColors)),
		tgbotapi.NewInlineKeyboardButtonData("✨ Effects", cb(ownerID, "menu", menuEffects)),
	})

	utility := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("↺ Reset", cb(ownerID, "reset")),
	}
	if activeCard(view).PreviewImage != "" {
		utility = append([]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🖼 Preview", cb(ownerID, "image")),
		}, utility...)
	}
	rows = append(rows, utility)

	confirm := "✅ Use this template"
	if view.Committing {
		confirm = "⏳ Saving…"
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(confirm, cb(ownerID, "confirm")),
	})

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func colorsKeyboard(ownerID int64, view gallery.View) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	rows = append(rows, colorRows(ownerID, "bg", "Background", view.BackgroundChoices, view.BackgroundColor.Value)...)
	rows = append(rows, colorRows(ownerID, "ac", "Accent", view.AccentChoices, view.AccentColor.Value)...)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", menuMain)),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func colorRows(ownerID int64, action, title string, choices []string, current string) [][]tgbotapi.InlineKeyboardButton {
	if len(choices) == 0 {
		return nil
	}
	rows := [][]tgbotapi.InlineKeyboardButton{{
		tgbotapi.NewInlineKeyboardButtonData("· "+title+" ·", cb(ownerID, "menu", menuColors)),
	}}

	var row []tgbotapi.InlineKeyboardButton
	for i, color := range choices {
		label := strings.ToUpper(color)
		if strings.EqualFold(color, current) {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, action, strconv.Itoa(i))))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func effectsKeyboard(ownerID int64, view gallery.View) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range view.Effects {
		label := "⬜ " + row.Label
		switch {
		case row.Disabled:
			label = "🚫 " + row.Label
		case row.Checked:
			label = "✅ " + row.Label
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "fx", row.Key)),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", menuMain)),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", galleryCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

func statusIcon(kind gallery.StatusKind) string {
	switch kind {
	case gallery.StatusSaving:
		return "⏳"
	case gallery.StatusSuccess:
		return "✅"
	case gallery.StatusOffline:
		return "📴"
	default:
		return "❌"
	}
}

func truncateLine(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
