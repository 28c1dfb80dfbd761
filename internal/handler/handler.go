package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-keyword-alert/internal/logger"
	"tg-keyword-alert/internal/service"
)

// Handler routes incoming private-chat commands and inline keyboard
// callbacks to the subscription services.
type Handler struct {
	bot   *telego.Bot
	users *service.UserService
	subs  *service.SubscriptionService
}

// New creates a new Handler
func New(bot *telego.Bot, users *service.UserService, subs *service.SubscriptionService) *Handler {
	return &Handler{bot: bot, users: users, subs: subs}
}

// Register attaches the message and callback query handlers.
func (h *Handler) Register(bh *th.BotHandler) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		return h.handleMessage(ctx, message)
	})

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return h.handleCallback(ctx, query)
	})
}

const (
	welcomeText      = "👋 Welcome! You are registered. Use /help to see what I can do."
	unauthorizedText = "Please send /start first to register."
	internalErrText  = "Something went wrong, please try again."
)

func (h *Handler) handleMessage(ctx *th.Context, message telego.Message) error {
	// Commands are accepted in private chats only; group noise is ignored
	if message.Chat.Type != telego.ChatTypePrivate || message.From == nil {
		return nil
	}

	cmd, ok := ParseCommand(message.Text)
	if !ok {
		return nil
	}

	chatID := message.Chat.ID
	logger.Infof("Received command %q from chat %d", message.Text, chatID)

	if cmd.Kind == CmdStart {
		if _, err := h.users.EnsureUser(chatID); err != nil {
			logger.Errorf("Error registering user %d: %v", chatID, err)
			return h.reply(ctx, chatID, internalErrText)
		}
		return h.reply(ctx, chatID, welcomeText)
	}

	if !h.users.IsAuthorized(chatID) {
		return h.reply(ctx, chatID, unauthorizedText)
	}

	user, err := h.users.FindUser(chatID)
	if err != nil || user == nil {
		logger.Errorf("Error loading user %d: %v", chatID, err)
		return h.reply(ctx, chatID, internalErrText)
	}

	switch cmd.Kind {
	case CmdHelp:
		return h.reply(ctx, chatID, helpText)
	case CmdSubscribe:
		return h.handleSubscribe(ctx, chatID, user.ID, cmd.Args)
	case CmdUnsubscribe:
		return h.handleUnsubscribe(ctx, chatID, user.ID, cmd.Args)
	case CmdUnsubscribeID:
		return h.handleUnsubscribeID(ctx, chatID, user.ID, cmd.Args)
	case CmdUnsubscribeAll:
		return h.handleUnsubscribeAll(ctx, chatID, user.ID)
	case CmdList:
		return h.handleList(ctx, chatID, user.ID)
	case CmdCancel:
		return h.reply(ctx, chatID, "OK, nothing to cancel.")
	case CmdStart:
		return nil
	case CmdUnknown:
		return h.reply(ctx, chatID, "Unrecognized command. Use /help.")
	}
	return nil
}

func (h *Handler) handleSubscribe(ctx *th.Context, chatID int64, userID uint, args string) error {
	keywords, channels, ok := parseSubscribeArgs(args)
	if !ok {
		return h.reply(ctx, chatID, "Usage: /subscribe keyword1,keyword2 channel1,channel2")
	}

	added, failures := h.subs.Subscribe(userID, keywords, channels)

	var b strings.Builder
	if len(added) == 0 && len(failures) == 0 {
		b.WriteString("Nothing new: those subscriptions already exist.")
	}
	if len(added) > 0 {
		fmt.Fprintf(&b, "✅ Added %d subscription(s):\n", len(added))
		for _, a := range added {
			fmt.Fprintf(&b, "#%d • %s • %s\n", a.ID, a.Keyword, a.Channel)
		}
	}
	if len(failures) > 0 {
		b.WriteString("⚠️ Some items failed:\n")
		for _, f := range failures {
			logger.Errorf("Error subscribing %q to %q for user %d: %v", f.Keyword, f.Channel, userID, f.Err)
			fmt.Fprintf(&b, "%s • %s\n", f.Keyword, f.Channel)
		}
	}
	return h.reply(ctx, chatID, strings.TrimRight(b.String(), "\n"))
}

func (h *Handler) handleUnsubscribe(ctx *th.Context, chatID int64, userID uint, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return h.reply(ctx, chatID, "Usage: /unsubscribe keyword [channel]")
	}

	channelArg := ""
	if len(fields) == 2 {
		channelArg = fields[1]
	}

	count, err := h.subs.Unsubscribe(userID, fields[0], channelArg)
	if err != nil {
		logger.Errorf("Error unsubscribing %q for user %d: %v", fields[0], userID, err)
		return h.reply(ctx, chatID, internalErrText)
	}
	if count == 0 {
		return h.reply(ctx, chatID, "No matching active subscription found.")
	}
	return h.reply(ctx, chatID, fmt.Sprintf("✅ Deactivated %d subscription(s).", count))
}

func (h *Handler) handleUnsubscribeID(ctx *th.Context, chatID int64, userID uint, args string) error {
	ids := parseIDList(args)
	if len(ids) == 0 {
		return h.reply(ctx, chatID, "Usage: /unsubscribe_id 10,22")
	}

	count, err := h.subs.UnsubscribeIDs(userID, ids)
	if err != nil {
		logger.Errorf("Error unsubscribing ids %v for user %d: %v", ids, userID, err)
		return h.reply(ctx, chatID, internalErrText)
	}
	if count == 0 {
		return h.reply(ctx, chatID, "No matching active subscription found.")
	}
	return h.reply(ctx, chatID, fmt.Sprintf("✅ Deactivated %d subscription(s).", count))
}

func (h *Handler) handleUnsubscribeAll(ctx *th.Context, chatID int64, userID uint) error {
	subs, err := h.subs.ListActive(userID)
	if err != nil {
		logger.Errorf("Error listing subscriptions for user %d: %v", userID, err)
		return h.reply(ctx, chatID, internalErrText)
	}
	if len(subs) == 0 {
		return h.reply(ctx, chatID, "You have no active subscriptions.")
	}

	_, err = h.bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        fmt.Sprintf("⚠️ Deactivate all %d subscriptions?", len(subs)),
		ReplyMarkup: confirmUnsubAllKeyboard(),
	})
	return err
}

func (h *Handler) handleList(ctx *th.Context, chatID int64, userID uint) error {
	text, keyboard, err := h.renderListPage(userID, 1)
	if err != nil {
		logger.Errorf("Error listing subscriptions for user %d: %v", userID, err)
		return h.reply(ctx, chatID, internalErrText)
	}
	if keyboard == nil {
		return h.reply(ctx, chatID, text)
	}

	_, err = h.bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

// renderListPage loads the current active subscriptions and renders the
// requested page. The empty list gets a plain message and no keyboard.
func (h *Handler) renderListPage(userID uint, page int) (string, *telego.InlineKeyboardMarkup, error) {
	subs, err := h.subs.ListActive(userID)
	if err != nil {
		return "", nil, err
	}
	if len(subs) == 0 {
		return "You have no active subscriptions.", nil, nil
	}

	rows := make([]listRow, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, listRow{ID: sub.ID, Pattern: sub.Pattern, Channel: sub.ChannelLabel()})
	}
	text, keyboard, _ := renderList(rows, page)
	return text, keyboard, nil
}

func (h *Handler) reply(ctx *th.Context, chatID int64, text string) error {
	_, err := h.bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		logger.Warningf("Error sending message to chat %d: %v", chatID, err)
	}
	return err
}
