package handler

import (
	"strings"
)

// CommandKind enumerates every command the bot understands. Dispatch is
// an exhaustive switch over this type rather than a string-keyed map of
// closures, so an unhandled command is visible at review time.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdStart
	CmdHelp
	CmdSubscribe
	CmdUnsubscribe
	CmdUnsubscribeID
	CmdUnsubscribeAll
	CmdList
	CmdCancel
)

// Command is one parsed text command with its raw argument string.
type Command struct {
	Kind CommandKind
	Args string
}

// ParseCommand extracts the command keyword and arguments from a message
// text. The keyword is case-insensitive and a @botname suffix is
// ignored. Returns false when the text is not a command at all.
func ParseCommand(text string) (Command, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}

	keyword := strings.ToLower(fields[0])
	if at := strings.Index(keyword, "@"); at > 0 {
		keyword = keyword[:at]
	}

	cmd := Command{Args: strings.Join(fields[1:], " ")}
	switch keyword {
	case "/start":
		cmd.Kind = CmdStart
	case "/help":
		cmd.Kind = CmdHelp
	case "/subscribe":
		cmd.Kind = CmdSubscribe
	case "/unsubscribe":
		cmd.Kind = CmdUnsubscribe
	case "/unsubscribe_id":
		cmd.Kind = CmdUnsubscribeID
	case "/unsubscribe_all":
		cmd.Kind = CmdUnsubscribeAll
	case "/list":
		cmd.Kind = CmdList
	case "/cancel":
		cmd.Kind = CmdCancel
	default:
		cmd.Kind = CmdUnknown
	}
	return cmd, true
}

const helpText = `Commands:
/start – Register and authorize the bot
/help – This help
/subscribe kw1,kw2 channel1,channel2 – Subscribe (regex supported: /exp/gi)
/unsubscribe kw [channel] – Deactivate by keyword
/unsubscribe_id 10,22 – Deactivate by ids
/unsubscribe_all – Deactivate everything
/list – List active subscriptions
/cancel – Cancel the current operation

Keyword syntax: word+word requires both, a=b accepts either,
word-other excludes "other". Accents are matched loosely.`
