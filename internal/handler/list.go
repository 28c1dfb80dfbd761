package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
)

const (
	listPageSize       = 20
	unsubButtonsPerRow = 4
)

// Action tokens carried in inline button callback data. They are the
// only state the list and confirmation flows have: every press
// re-derives the view from the store.
const (
	actionNoop            = "noop"
	actionListClose       = "list:close"
	actionListPagePrefix  = "list:page:"
	actionUnsubIDPrefix   = "unsub_id:"
	actionConfirmUnsubAll = "confirm_unsub_all"
	actionCancelUnsubAll  = "cancel_unsub_all"
)

// listRow is the slice of a subscription needed to render one list line.
type listRow struct {
	ID      uint
	Pattern string
	Channel string
}

// renderList builds the message text and inline keyboard for one page of
// active subscriptions. page is clamped to [1, totalPages]; rows carry a
// per-subscription deactivate button and the last rows navigate.
func renderList(rows []listRow, page int) (string, *telego.InlineKeyboardMarkup, int) {
	totalPages := (len(rows) + listPageSize - 1) / listPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * listPageSize
	end := start + listPageSize
	if end > len(rows) {
		end = len(rows)
	}
	pageRows := rows[start:end]

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Active subscriptions (page %d of %d):\n", page, totalPages)
	for _, row := range pageRows {
		fmt.Fprintf(&b, "#%d • %s • %s\n", row.ID, row.Pattern, row.Channel)
	}

	var keyboard [][]telego.InlineKeyboardButton
	var buttonRow []telego.InlineKeyboardButton
	for _, row := range pageRows {
		buttonRow = append(buttonRow, telego.InlineKeyboardButton{
			Text:         fmt.Sprintf("✖ %d", row.ID),
			CallbackData: fmt.Sprintf("%s%d", actionUnsubIDPrefix, row.ID),
		})
		if len(buttonRow) == unsubButtonsPerRow {
			keyboard = append(keyboard, buttonRow)
			buttonRow = nil
		}
	}
	if len(buttonRow) > 0 {
		keyboard = append(keyboard, buttonRow)
	}

	prev := telego.InlineKeyboardButton{Text: " ", CallbackData: actionNoop}
	if page > 1 {
		prev = telego.InlineKeyboardButton{
			Text:         "◀ Prev",
			CallbackData: fmt.Sprintf("%s%d", actionListPagePrefix, page-1),
		}
	}
	next := telego.InlineKeyboardButton{Text: " ", CallbackData: actionNoop}
	if page < totalPages {
		next = telego.InlineKeyboardButton{
			Text:         "Next ▶",
			CallbackData: fmt.Sprintf("%s%d", actionListPagePrefix, page+1),
		}
	}
	keyboard = append(keyboard,
		[]telego.InlineKeyboardButton{
			prev,
			{Text: fmt.Sprintf("%d/%d", page, totalPages), CallbackData: actionNoop},
			next,
		},
		[]telego.InlineKeyboardButton{
			{Text: "Close", CallbackData: actionListClose},
		},
	)

	return b.String(), &telego.InlineKeyboardMarkup{InlineKeyboard: keyboard}, page
}

// confirmUnsubAllKeyboard builds the two-button destructive-action
// prompt for /unsubscribe_all.
func confirmUnsubAllKeyboard() *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{
				{Text: "✅ Yes, deactivate all", CallbackData: actionConfirmUnsubAll},
				{Text: "Cancel", CallbackData: actionCancelUnsubAll},
			},
		},
	}
}
