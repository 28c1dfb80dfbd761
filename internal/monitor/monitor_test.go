package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-keyword-alert/internal/models"
	"tg-keyword-alert/internal/pattern"
	"tg-keyword-alert/internal/storage"
)

type fakeSource struct {
	messages map[string][]Message
}

func (s *fakeSource) Messages(_ context.Context, channel string, minID int64) ([]Message, error) {
	var out []Message
	for _, msg := range s.messages[channel] {
		if msg.ID > minID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.sent = append(n.sent, fmt.Sprintf("%d: %s", chatID, text))
	return nil
}

func newMonitorFixture(t *testing.T, source Source, notify Notifier) (*Monitor, *storage.UserRepository, *storage.SubscriptionRepository, *storage.StateRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureSchema(db))

	users := storage.NewUserRepository(db)
	subs := storage.NewSubscriptionRepository(db)
	state := storage.NewStateRepository(db)
	return NewMonitor(users, subs, state, source, notify), users, subs, state
}

func TestRunOnceAlertsOnMatch(t *testing.T) {
	source := &fakeSource{messages: map[string][]Message{
		"deals": {
			{ID: 10, Text: "Panela de ferro fundido em promoção"},
			{ID: 11, Text: "Sofá três lugares"},
		},
	}}
	notify := &fakeNotifier{}
	mon, users, subs, state := newMonitorFixture(t, source, notify)

	user := &models.User{ChatID: 555}
	require.NoError(t, users.Create(user))
	require.NoError(t, subs.Create(&models.Subscription{
		UserID:      user.ID,
		Pattern:     pattern.Compile("+panela+ferro"),
		ChannelName: "deals",
	}))

	require.NoError(t, mon.RunOnce(context.Background()))

	require.Len(t, notify.sent, 1)
	require.Contains(t, notify.sent[0], "555:")
	require.Contains(t, notify.sent[0], "[#FOUND](https://t.me/deals/10)")
	require.Contains(t, notify.sent[0], "**Panela de ferro fundido em promoção**")

	// High-water mark advanced past both messages
	raw, err := state.Get("last_msg_id:deals", "0")
	require.NoError(t, err)
	require.Equal(t, "11", raw)
}

func TestRunOnceDoesNotRealert(t *testing.T) {
	source := &fakeSource{messages: map[string][]Message{
		"deals": {{ID: 10, Text: "iphone barato"}},
	}}
	notify := &fakeNotifier{}
	mon, users, subs, _ := newMonitorFixture(t, source, notify)

	user := &models.User{ChatID: 1}
	require.NoError(t, users.Create(user))
	require.NoError(t, subs.Create(&models.Subscription{
		UserID:      user.ID,
		Pattern:     pattern.Compile("iphone"),
		ChannelName: "deals",
	}))

	require.NoError(t, mon.RunOnce(context.Background()))
	require.Len(t, notify.sent, 1)

	// Second sweep with no new messages stays silent
	require.NoError(t, mon.RunOnce(context.Background()))
	require.Len(t, notify.sent, 1)

	// A newer message alerts again
	source.messages["deals"] = append(source.messages["deals"], Message{ID: 12, Text: "iphone 15 em oferta"})
	require.NoError(t, mon.RunOnce(context.Background()))
	require.Len(t, notify.sent, 2)
}

func TestAlertLinksPrivateChannelAndHighlightsFragment(t *testing.T) {
	source := &fakeSource{messages: map[string][]Message{
		"-100987": {{ID: 5, Text: "Novo iPhone à venda"}},
	}}
	notify := &fakeNotifier{}
	mon, users, subs, _ := newMonitorFixture(t, source, notify)

	user := &models.User{ChatID: 77}
	require.NoError(t, users.Create(user))
	require.NoError(t, subs.Create(&models.Subscription{
		UserID:        user.ID,
		Pattern:       pattern.Compile("iphone"),
		ChannelChatID: "-100987",
	}))

	require.NoError(t, mon.RunOnce(context.Background()))

	require.Len(t, notify.sent, 1)
	// Marked id maps to a t.me/c/ deep link; the fragment keeps the
	// casing it occurs with in the message
	require.Equal(t, "77: [#FOUND](https://t.me/c/987/5) **iPhone**", notify.sent[0])
}

func TestMessageURL(t *testing.T) {
	require.Equal(t, "https://t.me/deals/7", messageURL("deals", 7))
	require.Equal(t, "https://t.me/deals/7", messageURL("@deals", 7))
	require.Equal(t, "https://t.me/c/987/7", messageURL("-100987", 7))
	require.Equal(t, "https://t.me/", messageURL("12345", 7))
	require.Equal(t, "https://t.me/", messageURL("", 7))
}

func TestRunStopsOnCancel(t *testing.T) {
	source := &fakeSource{messages: map[string][]Message{
		"deals": {{ID: 1, Text: "cooktop barato"}},
	}}
	notify := &fakeNotifier{}
	mon, users, subs, _ := newMonitorFixture(t, source, notify)

	user := &models.User{ChatID: 4}
	require.NoError(t, users.Create(user))
	require.NoError(t, subs.Create(&models.Subscription{
		UserID:      user.ID,
		Pattern:     pattern.Compile("cooktop"),
		ChannelName: "deals",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mon.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	// The sweep before the first tick already alerted
	require.Len(t, notify.sent, 1)
}

func TestRunOnceSkipsInactiveSubscriptions(t *testing.T) {
	source := &fakeSource{messages: map[string][]Message{
		"deals": {{ID: 3, Text: "cooktop em oferta"}},
	}}
	notify := &fakeNotifier{}
	mon, users, subs, _ := newMonitorFixture(t, source, notify)

	user := &models.User{ChatID: 9}
	require.NoError(t, users.Create(user))
	sub := &models.Subscription{
		UserID:      user.ID,
		Pattern:     pattern.Compile("cooktop"),
		ChannelName: "deals",
	}
	require.NoError(t, subs.Create(sub))

	_, err := subs.DeactivateByIDs(user.ID, []uint{sub.ID})
	require.NoError(t, err)

	require.NoError(t, mon.RunOnce(context.Background()))
	require.Empty(t, notify.sent)
}
