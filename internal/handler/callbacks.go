package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-keyword-alert/internal/logger"
)

// handleCallback processes inline keyboard presses. Every action token
// is self-contained, so a press on a stale message still resolves
// against the current store contents.
func (h *Handler) handleCallback(ctx *th.Context, query telego.CallbackQuery) error {
	if query.Data == "" {
		return nil
	}

	logger.Infof("Received callback query: %s", query.Data)

	chatID := query.From.ID
	if !h.users.IsAuthorized(chatID) {
		return h.answerCallback(ctx, query.ID, unauthorizedText, true)
	}

	user, err := h.users.FindUser(chatID)
	if err != nil || user == nil {
		logger.Errorf("Error loading user %d in callback: %v", chatID, err)
		return h.answerCallback(ctx, query.ID, internalErrText, true)
	}

	switch {
	case query.Data == actionNoop:
		return h.answerCallback(ctx, query.ID, "", false)

	case query.Data == actionListClose:
		h.editMessage(ctx, query, "List closed. Use /list to open it again.", nil)
		return h.answerCallback(ctx, query.ID, "", false)

	case strings.HasPrefix(query.Data, actionListPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(query.Data, actionListPagePrefix))
		if err != nil {
			logger.Warningf("Invalid page in callback data: %s", query.Data)
			return h.answerCallback(ctx, query.ID, "", false)
		}
		return h.showListPage(ctx, query, user.ID, page, "")

	case strings.HasPrefix(query.Data, actionUnsubIDPrefix):
		return h.handleUnsubIDCallback(ctx, query, user.ID)

	case query.Data == actionConfirmUnsubAll:
		count, err := h.subs.UnsubscribeAll(user.ID)
		if err != nil {
			logger.Errorf("Error deactivating all subscriptions for user %d: %v", user.ID, err)
			return h.answerCallback(ctx, query.ID, internalErrText, true)
		}
		h.editMessage(ctx, query, fmt.Sprintf("✅ Deactivated %d subscription(s).", count), nil)
		return h.answerCallback(ctx, query.ID, "", false)

	case query.Data == actionCancelUnsubAll:
		h.editMessage(ctx, query, "Cancelled. Your subscriptions are untouched.", nil)
		return h.answerCallback(ctx, query.ID, "", false)
	}

	logger.Warningf("Unknown callback data: %s", query.Data)
	return h.answerCallback(ctx, query.ID, "", false)
}

// handleUnsubIDCallback deactivates a single subscription from a list
// button and re-renders the list. The token carries no page, so the
// refreshed view starts over at page one.
func (h *Handler) handleUnsubIDCallback(ctx *th.Context, query telego.CallbackQuery, userID uint) error {
	id, err := strconv.ParseUint(strings.TrimPrefix(query.Data, actionUnsubIDPrefix), 10, 32)
	if err != nil {
		logger.Warningf("Invalid id in callback data: %s", query.Data)
		return h.answerCallback(ctx, query.ID, "", false)
	}

	count, err := h.subs.UnsubscribeIDs(userID, []uint{uint(id)})
	if err != nil {
		logger.Errorf("Error deactivating subscription %d for user %d: %v", id, userID, err)
		return h.answerCallback(ctx, query.ID, internalErrText, true)
	}

	toast := fmt.Sprintf("Deactivated #%d", id)
	if count == 0 {
		toast = "Already deactivated."
	}
	return h.showListPage(ctx, query, userID, 1, toast)
}

// showListPage re-renders a list page into the message the callback
// came from.
func (h *Handler) showListPage(ctx *th.Context, query telego.CallbackQuery, userID uint, page int, toast string) error {
	text, keyboard, err := h.renderListPage(userID, page)
	if err != nil {
		logger.Errorf("Error rendering list page %d for user %d: %v", page, userID, err)
		return h.answerCallback(ctx, query.ID, internalErrText, true)
	}

	h.editMessage(ctx, query, text, keyboard)
	return h.answerCallback(ctx, query.ID, toast, false)
}

func (h *Handler) editMessage(ctx *th.Context, query telego.CallbackQuery, text string, keyboard *telego.InlineKeyboardMarkup) {
	if query.Message == nil {
		return
	}
	message, ok := query.Message.(*telego.Message)
	if !ok {
		logger.Warningf("Unexpected message type in callback: %T", query.Message)
		return
	}

	_, err := h.bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
		ChatID:      telego.ChatID{ID: message.Chat.ID},
		MessageID:   message.MessageID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		logger.Warningf("Error editing message: %v", err)
	}
}

func (h *Handler) answerCallback(ctx *th.Context, queryID, text string, alert bool) error {
	err := h.bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		logger.Warningf("Error answering callback query: %v", err)
	}
	return err
}
