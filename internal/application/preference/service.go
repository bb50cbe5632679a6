package preference

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/pkg/validate"
)

// Repository stores explicit preference rows. PutAll must apply every row or
// none of them.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.NotificationPreference, error)
	PutAll(ctx context.Context, userID int64, prefs []domain.NotificationPreference) error
}

type Service interface {
	Get(ctx context.Context, userID int64) ([]domain.NotificationPreference, error)
	Lookup(ctx context.Context, userID int64, t domain.NotificationType) (domain.NotificationPreference, error)
	UpdateMany(ctx context.Context, userID int64, req domain.UpdatePreferencesRequest) error
	ResetToDefaults(ctx context.Context, userID int64) error
	IsChannelEnabled(ctx context.Context, userID int64, t domain.NotificationType, ch domain.Channel) (bool, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns one row per notification type. Types without a stored row get
// the default (all channels enabled); nothing is written.
func (s *service) Get(ctx context.Context, userID int64) ([]domain.NotificationPreference, error) {
	stored, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w: %w", domain.ErrPersistence, err)
	}
	byType := make(map[domain.NotificationType]domain.NotificationPreference, len(stored))
	for _, p := range stored {
		byType[p.NotificationType] = p
	}
	out := make([]domain.NotificationPreference, 0, len(domain.NotificationTypes()))
	for _, t := range domain.NotificationTypes() {
		if p, ok := byType[t]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, domain.DefaultPreference(userID, t))
	}
	return out, nil
}

func (s *service) Lookup(ctx context.Context, userID int64, t domain.NotificationType) (domain.NotificationPreference, error) {
	if !t.Valid() {
		return domain.NotificationPreference{}, fmt.Errorf("lookup preference: unknown type %q: %w", t, domain.ErrValidation)
	}
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return domain.NotificationPreference{}, err
	}
	for _, p := range prefs {
		if p.NotificationType == t {
			return p, nil
		}
	}
	return domain.DefaultPreference(userID, t), nil
}

// UpdateMany validates the whole payload before writing anything, then
// upserts every entry in one atomic write.
func (s *service) UpdateMany(ctx context.Context, userID int64, req domain.UpdatePreferencesRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	now := s.now()
	// Later entries for the same type win.
	merged := make(map[domain.NotificationType]domain.NotificationPreference, len(req.Preferences))
	order := make([]domain.NotificationType, 0, len(req.Preferences))
	for _, e := range req.Preferences {
		if _, seen := merged[e.NotificationType]; !seen {
			order = append(order, e.NotificationType)
		}
		merged[e.NotificationType] = domain.NotificationPreference{
			UserID:           userID,
			NotificationType: e.NotificationType,
			EmailEnabled:     *e.EmailEnabled,
			SoundEnabled:     *e.SoundEnabled,
			PushEnabled:      *e.PushEnabled,
			UpdatedAt:        now,
		}
	}
	rows := make([]domain.NotificationPreference, 0, len(order))
	for _, t := range order {
		rows = append(rows, merged[t])
	}
	if err := s.repo.PutAll(ctx, userID, rows); err != nil {
		return fmt.Errorf("update preferences: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *service) ResetToDefaults(ctx context.Context, userID int64) error {
	if err := s.repo.PutAll(ctx, userID, domain.DefaultPreferences(userID, s.now())); err != nil {
		return fmt.Errorf("reset preferences: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *service) IsChannelEnabled(ctx context.Context, userID int64, t domain.NotificationType, ch domain.Channel) (bool, error) {
	p, err := s.Lookup(ctx, userID, t)
	if err != nil {
		return false, err
	}
	return p.Enabled(ch), nil
}
