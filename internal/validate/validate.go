package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)
	reHHMM  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'.,&-]{1,100}$`)
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return rePhone.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return reHHMM.MatchString(fl.Field().String())
		})
	})
	return v
}

// Struct runs the validate tags on s.
func Struct(s any) error { return instance().Struct(s) }

// Fields flattens a Struct error into field -> failed tag. Non-validation errors yield nil.
func Fields(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password only bounds length; the backend owns the password policy.
func Password(s string) bool {
	return len(s) >= 1 && len(s) <= 128
}

// NewPassword is the policy applied before a change-password call.
func NewPassword(s string) bool {
	l := len(s)
	if l < 8 || l > 128 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s, reQ.MatchString(s)
}

// ID parses a backend guid.
func ID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func HHMM(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reHHMM.MatchString(s)
}

// Page parses a 1-based page number, defaulting to 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 10000 {
		return 10000
	}
	return n
}

// Clamp parses s as an int bounded to [lo, hi], using def when s is empty or invalid.
func Clamp(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		n = def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Date parses a yyyy-mm-dd form value. Empty input is not an error.
func Date(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// MaxRangeDays bounds any reporting window.
const MaxRangeDays = 366

// Range resolves optional bounds, defaulting to the defDays before now, and reports
// whether the window is ordered and covers at most MaxRangeDays calendar days.
func Range(start, end *time.Time, now time.Time, defDays int) (from, to time.Time, ok bool) {
	from, to = now.AddDate(0, 0, -defDays), now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return from, to, false
	}
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return from, to, !last.After(first.AddDate(0, 0, MaxRangeDays))
}

// Float parses an optional decimal form value.
func Float(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// LocalURL reports whether u is safe to redirect to: a path on this host.
func LocalURL(u string) bool {
	if u == "" || u[0] != '/' {
		return false
	}
	if len(u) > 1 && (u[1] == '/' || u[1] == '\\') {
		return false
	}
	return !strings.ContainsAny(u, "\r\n")
}
