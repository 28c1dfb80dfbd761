package service

import (
	"tg-keyword-alert/internal/channel"
	"tg-keyword-alert/internal/models"
	"tg-keyword-alert/internal/pattern"
	"tg-keyword-alert/internal/storage"
)

// SubscriptionService implements the subscription operations on top of
// the repository: keyword expressions are compiled before storage and
// dedup/soft-delete rules live here.
type SubscriptionService struct {
	subs *storage.SubscriptionRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subs *storage.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// Added describes one subscription created by Subscribe.
type Added struct {
	ID      uint
	Keyword string
	Channel string
}

// Failure describes one keyword x channel pair that could not be stored.
type Failure struct {
	Keyword string
	Channel string
	Err     error
}

// Subscribe creates one subscription per keyword x channel pair. Pairs
// identical to an already-active subscription are silently skipped.
// Store failures are collected per pair rather than aborting the batch:
// partial success is an expected outcome.
func (s *SubscriptionService) Subscribe(userID uint, keywords, channels []string) ([]Added, []Failure) {
	var added []Added
	var failures []Failure
	for _, ch := range channels {
		ref := channel.Resolve(ch)
		for _, kw := range keywords {
			compiled := pattern.Compile(kw)

			exists, err := s.subs.ExistsActive(userID, compiled, ref.Name, ref.ChatID)
			if err != nil {
				failures = append(failures, Failure{Keyword: kw, Channel: ch, Err: err})
				continue
			}
			if exists {
				continue
			}

			sub := &models.Subscription{
				UserID:        userID,
				Pattern:       compiled,
				ChannelName:   ref.Name,
				ChannelChatID: ref.ChatID,
			}
			if err := s.subs.Create(sub); err != nil {
				failures = append(failures, Failure{Keyword: kw, Channel: ch, Err: err})
				continue
			}
			added = append(added, Added{ID: sub.ID, Keyword: kw, Channel: ref.Label()})
		}
	}
	return added, failures
}

// ListActive returns the user's active subscriptions ordered by id.
func (s *SubscriptionService) ListActive(userID uint) ([]*models.Subscription, error) {
	return s.subs.ListActive(userID)
}

// Unsubscribe deactivates active subscriptions matching the keyword,
// optionally narrowed to one channel, and returns the affected count.
func (s *SubscriptionService) Unsubscribe(userID uint, keyword, channelArg string) (int64, error) {
	compiled := pattern.Compile(keyword)

	var ref channel.Ref
	if channelArg != "" {
		ref = channel.Resolve(channelArg)
	}
	return s.subs.DeactivateByPattern(userID, compiled, ref.Name, ref.ChatID)
}

// UnsubscribeIDs deactivates the user's subscriptions with the given ids.
func (s *SubscriptionService) UnsubscribeIDs(userID uint, ids []uint) (int64, error) {
	return s.subs.DeactivateByIDs(userID, ids)
}

// UnsubscribeAll deactivates every active subscription of the user.
func (s *SubscriptionService) UnsubscribeAll(userID uint) (int64, error) {
	return s.subs.DeactivateAll(userID)
}
