package handlers

import (
	"html/template"
	"strings"

	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

// NewEngine builds the view engine with the helpers the templates use.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(viewFuncs)
	return engine
}

var viewFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"nmoney": func(d decimal.NullDecimal) string {
		if !d.Valid {
			return ""
		}
		return d.Decimal.StringFixed(2)
	},
	"isNew": func(id uuid.UUID) bool { return id == uuid.Nil },
	"idOf": func(id *uuid.UUID) string {
		if id == nil {
			return ""
		}
		return id.String()
	},
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t domain.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02.01.2006 15:04")
	},
	"pdate": func(t *domain.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("02.01.2006 15:04")
	},
	"day":       func(t domain.Time) string { return t.Format("2006-01-02") },
	"method":    services.MethodDisplayName,
	"lower":     strings.ToLower,
	"checked":   func(b bool) template.HTMLAttr { return attrIf(b, "checked") },
	"selected":  func(b bool) template.HTMLAttr { return attrIf(b, "selected") },
	"stars":     func(n int) string { return strings.Repeat("★", clampStars(n)) + strings.Repeat("☆", 5-clampStars(n)) },
	"add":       func(a, b int) int { return a + b },
	"indent":    func(level int) string { return strings.Repeat("· ", level) },
	"hasPrefix": strings.HasPrefix,
}

func attrIf(b bool, attr string) template.HTMLAttr {
	if b {
		return template.HTMLAttr(attr)
	}
	return ""
}

func clampStars(n int) int {
	return max(0, min(n, 5))
}
