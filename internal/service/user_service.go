package service

import (
	"fmt"

	"tg-keyword-alert/internal/cache"
	"tg-keyword-alert/internal/logger"
	"tg-keyword-alert/internal/models"
	"tg-keyword-alert/internal/storage"
)

// UserService registers users and answers authorization checks through
// an explicit TTL cache.
type UserService struct {
	users     *storage.UserRepository
	authCache *cache.TTLCache
}

// NewUserService creates a new UserService
func NewUserService(users *storage.UserRepository, authCache *cache.TTLCache) *UserService {
	return &UserService{users: users, authCache: authCache}
}

func authKey(chatID int64) string {
	return fmt.Sprintf("allow:%d", chatID)
}

// EnsureUser returns the user registered for chatID, creating it on
// first contact. Creation invalidates any cached authorization verdict
// so a stale "unknown user" answer is never served afterwards.
func (s *UserService) EnsureUser(chatID int64) (*models.User, error) {
	user, err := s.users.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{ChatID: chatID}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	s.authCache.Invalidate(authKey(chatID))
	return user, nil
}

// FindUser returns the user registered for chatID, or nil when absent.
func (s *UserService) FindUser(chatID int64) (*models.User, error) {
	return s.users.GetByChatID(chatID)
}

// IsAuthorized reports whether chatID has completed /start. Verdicts are
// cached; store errors are not cached and deny access for this attempt.
func (s *UserService) IsAuthorized(chatID int64) bool {
	key := authKey(chatID)
	if allowed, ok := s.authCache.Get(key); ok {
		return allowed
	}

	user, err := s.users.GetByChatID(chatID)
	if err != nil {
		logger.Warningf("authorization lookup failed for chat %d: %v", chatID, err)
		return false
	}

	allowed := user != nil
	s.authCache.Put(key, allowed)
	return allowed
}
