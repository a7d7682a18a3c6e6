package services

import (
	"context"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

const (
	NotificationPageSize = 20
	unreadWindow         = 50
)

type NotificationService struct {
	API *apiclient.Client
}

func NewNotificationService(api *apiclient.Client) *NotificationService {
	return &NotificationService{API: api}
}

func (s *NotificationService) List(ctx context.Context, page, pageSize int) (domain.PagedResult[domain.Notification], error) {
	return apiclient.Get[domain.PagedResult[domain.Notification]](ctx, s.API,
		"api/v1/notification?"+pageQuery(page, pageSize).Encode())
}

// UnreadCount counts unread items in the newest page. The backend has no count endpoint.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	page, err := s.List(ctx, 1, unreadWindow)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range page.Items {
		if !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.API.Exec(ctx, "POST", "api/v1/notification/mark-as-read", map[string][]uuid.UUID{"notificationIds": ids})
}

func (s *NotificationService) Preferences(ctx context.Context) (domain.NotificationPreferences, error) {
	return apiclient.Get[domain.NotificationPreferences](ctx, s.API, "api/v1/notification/preferences")
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, p domain.NotificationPreferences) error {
	return s.API.Exec(ctx, "PUT", "api/v1/notification/preferences", p)
}

// SettingsService reads and writes the portal preferences. These endpoints are not enveloped.
type SettingsService struct {
	API *apiclient.Client
}

func NewSettingsService(api *apiclient.Client) *SettingsService { return &SettingsService{API: api} }

func (s *SettingsService) Get(ctx context.Context) (domain.MerchantPreferences, error) {
	return apiclient.GetRaw[domain.MerchantPreferences](ctx, s.API, "api/v1/userpreferences/merchant")
}

func (s *SettingsService) Update(ctx context.Context, p domain.MerchantPreferences) (domain.MerchantPreferences, error) {
	return apiclient.PutRaw[domain.MerchantPreferences](ctx, s.API, "api/v1/userpreferences/merchant", p)
}

// DefaultPreferences is what the settings form shows when nothing is stored yet.
func DefaultPreferences() domain.MerchantPreferences {
	return domain.MerchantPreferences{
		SoundEnabled:              true,
		DesktopNotifications:      true,
		NewOrderNotifications:     true,
		StatusChangeNotifications: true,
		CancellationNotifications: true,
		DoNotDisturbStart:         "22:00",
		DoNotDisturbEnd:           "08:00",
		NotificationSound:         "default",
	}
}
