package services

import (
	"context"
	"net/url"
	"strconv"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

var auditPaths = map[string]string{
	"user":     "api/AuditLogging/user-activity",
	"system":   "api/AuditLogging/system-change",
	"security": "api/AuditLogging/security-event",
}

// AuditTab normalizes the tab name; unknown tabs show user activity.
func AuditTab(tab string) string {
	if _, ok := auditPaths[tab]; ok {
		return tab
	}
	return "user"
}

type AuditService struct {
	API *apiclient.Client
}

func NewAuditService(api *apiclient.Client) *AuditService { return &AuditService{API: api} }

// Logs returns one page of the tab's log. These endpoints return bare lists.
func (s *AuditService) Logs(ctx context.Context, q domain.AuditQuery) ([]domain.AuditLogEntry, error) {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	if q.UserID != "" {
		key := "userId"
		if AuditTab(q.Tab) == "system" {
			key = "changedByUserId"
		}
		v.Set(key, q.UserID)
	}
	page := max(q.Page, 1)
	size := q.PageSize
	if size <= 0 {
		size = 50
	}
	v.Set("pageNumber", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(size))
	entries, err := apiclient.GetRaw[[]domain.AuditLogEntry](ctx, s.API, auditPaths[AuditTab(q.Tab)]+"?"+v.Encode())
	if err != nil || entries == nil {
		return []domain.AuditLogEntry{}, err
	}
	return entries, nil
}
