package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-keyword-alert/internal/cache"
	"tg-keyword-alert/internal/storage"
)

func newTestRepos(t *testing.T) (*storage.UserRepository, *storage.SubscriptionRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureSchema(db))
	return storage.NewUserRepository(db), storage.NewSubscriptionRepository(db)
}

func TestSubscribeIdempotent(t *testing.T) {
	_, subRepo := newTestRepos(t)
	svc := NewSubscriptionService(subRepo)

	added, failures := svc.Subscribe(1, []string{"panela"}, []string{"@shopdeals"})
	require.Empty(t, failures)
	require.Len(t, added, 1)
	require.Equal(t, "shopdeals", added[0].Channel)

	// Same keyword and channel again: silently skipped, no error
	added, failures = svc.Subscribe(1, []string{"panela"}, []string{"@shopdeals"})
	require.Empty(t, failures)
	require.Empty(t, added)

	subs, err := svc.ListActive(1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
}

func TestSubscribeCompilesExpressions(t *testing.T) {
	_, subRepo := newTestRepos(t)
	svc := NewSubscriptionService(subRepo)

	added, failures := svc.Subscribe(1, []string{"+panela+ferro"}, []string{"shopdeals"})
	require.Empty(t, failures)
	require.Len(t, added, 1)

	subs, err := svc.ListActive(1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, `/^(?=.*(?:\b(?:panela)\b))(?=.*(?:\b(?:ferro)\b)).*/i`, subs[0].Pattern)
}

func TestSubscribeCartesianPairs(t *testing.T) {
	_, subRepo := newTestRepos(t)
	svc := NewSubscriptionService(subRepo)

	added, failures := svc.Subscribe(1, []string{"a", "b"}, []string{"c1", "-100987"})
	require.Empty(t, failures)
	require.Len(t, added, 4)
}

func TestUnsubscribeByKeyword(t *testing.T) {
	_, subRepo := newTestRepos(t)
	svc := NewSubscriptionService(subRepo)

	svc.Subscribe(1, []string{"panela"}, []string{"deals", "promos"})

	count, err := svc.Unsubscribe(1, "panela", "deals")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// No channel argument: remaining matches everywhere are deactivated
	count, err = svc.Unsubscribe(1, "panela", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Nothing left: zero count, not an error
	count, err = svc.Unsubscribe(1, "panela", "")
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestUnsubscribeAll(t *testing.T) {
	_, subRepo := newTestRepos(t)
	svc := NewSubscriptionService(subRepo)

	svc.Subscribe(7, []string{"a", "b", "c"}, []string{"deals"})

	count, err := svc.UnsubscribeAll(7)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	subs, err := svc.ListActive(7)
	require.NoError(t, err)
	require.Empty(t, subs)
}

func TestUserServiceAuthorization(t *testing.T) {
	userRepo, _ := newTestRepos(t)
	users := NewUserService(userRepo, cache.NewTTLCache(5*time.Minute))

	require.False(t, users.IsAuthorized(42))

	// The denial verdict is cached; EnsureUser must invalidate it
	user, err := users.EnsureUser(42)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.True(t, users.IsAuthorized(42))

	// EnsureUser is idempotent
	again, err := users.EnsureUser(42)
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}
