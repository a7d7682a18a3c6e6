package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend parses money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ApiResponse is the backend envelope wrapping every enveloped payload.
type ApiResponse[T any] struct {
	IsSuccess bool   `json:"isSuccess"`
	Data      T      `json:"data"`
	Error     string `json:"error,omitempty"`
}

type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// EmptyPage is what list pages fall back to when the backend is unavailable.
func EmptyPage[T any](page, size int) PagedResult[T] {
	if page < 1 {
		page = 1
	}
	return PagedResult[T]{Items: []T{}, Page: page, PageSize: size}
}

func (p PagedResult[T]) HasPrev() bool { return p.Page > 1 }
func (p PagedResult[T]) HasNext() bool { return p.Page < p.TotalPages }
func (p PagedResult[T]) PrevPage() int { return p.Page - 1 }
func (p PagedResult[T]) NextPage() int { return p.Page + 1 }

// Time decodes the timestamp flavours the backend emits: RFC3339, offset-less
// timestamps with up to seven fractional digits, and bare dates.
type Time struct{ time.Time }

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func NewTime(t time.Time) Time { return Time{Time: t} }

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("domain: unsupported time %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Date truncates to the calendar day in the value's own location.
func (t Time) Date() time.Time {
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
