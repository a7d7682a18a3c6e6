package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
)

func failingBackend(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
}

func TestFanOutPagesDegradeToEmpty(t *testing.T) {
	cases := []struct {
		path   string
		role   string
		action string
		banner bool
	}{
		{"/tracking", domain.RoleMerchantOwner, "tracking.list.fail", true},
		{"/holidays", domain.RoleMerchantOwner, "holidays.list.fail", true},
		{"/documents", domain.RoleMerchantOwner, "documents.list.fail", true},
		{"/admin/geo?latitude=41.01&longitude=28.97", domain.RoleAdmin, "geo.analytics.fail", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			p := newPortal(t, failingBackend)
			sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString(), UserRole: tc.role})

			var resp *http.Response
			logs := captureLogs(t, func() { resp = p.get(t, tc.path, sid) })

			require.Equal(t, http.StatusOK, resp.StatusCode)
			html := body(t, resp)
			if tc.banner {
				assert.Contains(t, html, "flash-error")
			}
			_, found := findLog(logs, tc.action)
			assert.True(t, found, "want %s logged", tc.action)
		})
	}
}
