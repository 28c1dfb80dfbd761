package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tg-keyword-alert/internal/logger"
	"tg-keyword-alert/internal/models"
	"tg-keyword-alert/internal/pattern"
	"tg-keyword-alert/internal/storage"
)

// Message is one channel post seen by a Source.
type Message struct {
	ID   int64
	Text string
}

// Source yields channel messages newer than minID, oldest first.
type Source interface {
	Messages(ctx context.Context, channel string, minID int64) ([]Message, error)
}

// Notifier delivers one alert to a user's chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Monitor sweeps monitored channels for messages matching active
// subscriptions and alerts the owners. Progress per channel is a
// high-water message id in the state table, so restarts never re-alert.
type Monitor struct {
	users  *storage.UserRepository
	subs   *storage.SubscriptionRepository
	state  *storage.StateRepository
	source Source
	notify Notifier
}

// NewMonitor creates a new Monitor
func NewMonitor(users *storage.UserRepository, subs *storage.SubscriptionRepository, state *storage.StateRepository, source Source, notify Notifier) *Monitor {
	return &Monitor{users: users, subs: subs, state: state, source: source, notify: notify}
}

func stateKey(channel string) string {
	return "last_msg_id:" + channel
}

// Run sweeps all channels once per interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := m.RunOnce(ctx); err != nil {
			logger.Errorf("Error sweeping channels: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sweeps every channel that has at least one active subscription.
func (m *Monitor) RunOnce(ctx context.Context) error {
	subs, err := m.subs.ListAllActive()
	if err != nil {
		return fmt.Errorf("listing active subscriptions: %w", err)
	}

	byChannel := make(map[string][]*models.Subscription)
	for _, sub := range subs {
		label := sub.ChannelLabel()
		byChannel[label] = append(byChannel[label], sub)
	}

	for channel, channelSubs := range byChannel {
		if err := m.sweepChannel(ctx, channel, channelSubs); err != nil {
			logger.Errorf("Error sweeping channel %s: %v", channel, err)
		}
	}
	return nil
}

func (m *Monitor) sweepChannel(ctx context.Context, channel string, subs []*models.Subscription) error {
	lastID, err := m.lastMessageID(channel)
	if err != nil {
		return err
	}

	messages, err := m.source.Messages(ctx, channel, lastID)
	if err != nil {
		return fmt.Errorf("fetching messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	matchers := make(map[uint]*pattern.Matcher, len(subs))
	for _, sub := range subs {
		matcher, err := pattern.NewMatcher(sub.Pattern)
		if err != nil {
			logger.Warningf("Invalid stored pattern in subscription %d: %v", sub.ID, err)
			continue
		}
		matchers[sub.ID] = matcher
	}

	highWater := lastID
	for _, msg := range messages {
		if msg.ID > highWater {
			highWater = msg.ID
		}
		if msg.Text == "" {
			continue
		}

		for _, sub := range subs {
			matcher, ok := matchers[sub.ID]
			if !ok {
				continue
			}

			matched, err := matcher.Match(msg.Text)
			if err != nil {
				logger.Warningf("Error matching subscription %d: %v", sub.ID, err)
				continue
			}
			if !matched {
				continue
			}

			fragment, err := matcher.Find(msg.Text)
			if err != nil {
				logger.Warningf("Error extracting match for subscription %d: %v", sub.ID, err)
			}
			if err := m.alert(ctx, sub, channel, msg, fragment); err != nil {
				logger.Errorf("Error alerting for subscription %d: %v", sub.ID, err)
			}
		}
	}

	if highWater > lastID {
		if err := m.state.Set(stateKey(channel), strconv.FormatInt(highWater, 10)); err != nil {
			return fmt.Errorf("storing progress: %w", err)
		}
	}
	return nil
}

func (m *Monitor) lastMessageID(channel string) (int64, error) {
	raw, err := m.state.Get(stateKey(channel), "0")
	if err != nil {
		return 0, fmt.Errorf("loading progress: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warningf("Invalid progress marker for channel %s: %q", channel, raw)
		return 0, nil
	}
	return id, nil
}

func (m *Monitor) alert(ctx context.Context, sub *models.Subscription, channel string, msg Message, fragment string) error {
	user, err := m.users.GetByID(sub.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Warningf("Subscription %d has no owner", sub.ID)
		return nil
	}

	if fragment == "" {
		fragment = msg.Text
	}
	text := fmt.Sprintf("[#FOUND](%s) **%s**", messageURL(channel, msg.ID), fragment)
	return m.notify.Notify(ctx, user.ChatID, text)
}

// messageURL builds the t.me deep link for a channel message. Marked
// chat ids (-100 prefixed) become private t.me/c/ links; a reference
// that is neither a public name nor a marked id yields the bare host.
func messageURL(channel string, msgID int64) string {
	const host = "https://t.me/"
	if rest, ok := strings.CutPrefix(channel, "-100"); ok {
		return fmt.Sprintf("%sc/%s/%d", host, rest, msgID)
	}
	if channel == "" || strings.HasPrefix(channel, "-") {
		return host
	}
	if _, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return host
	}
	return fmt.Sprintf("%s%s/%d", host, strings.TrimPrefix(channel, "@"), msgID)
}
