// Package i18n negotiates the portal culture and serves the YAML message bundles.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

const (
	CookieName     = "MerchantPortal.Culture"
	DefaultCulture = "tr-TR"
)

// Supported lists the cultures in preference order. The first one is the default.
var Supported = []string{"tr-TR", "en-US", "ar-SA"}

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse("tr-TR"),
	language.MustParse("en-US"),
	language.MustParse("ar-SA"),
})

// Normalize returns the supported culture equal to s (case-insensitive), or the default.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for _, c := range Supported {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return DefaultCulture
}

func IsSupported(s string) bool {
	for _, c := range Supported {
		if strings.EqualFold(c, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// FromAcceptLanguage picks the best supported culture for an Accept-Language header.
func FromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return DefaultCulture
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return DefaultCulture
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return DefaultCulture
	}
	return Supported[idx]
}

// EncodeCookie renders the culture cookie value, "c=<culture>|uic=<culture>".
func EncodeCookie(culture string) string {
	c := Normalize(culture)
	return "c=" + c + "|uic=" + c
}

// DecodeCookie reads a culture cookie. The UI culture wins over the formatting culture.
// ok is false when the value holds no supported culture.
func DecodeCookie(v string) (string, bool) {
	var c, uic string
	for _, part := range strings.Split(v, "|") {
		k, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(k) {
		case "c":
			c = val
		case "uic":
			uic = val
		}
	}
	for _, cand := range []string{uic, c} {
		if IsSupported(cand) {
			return Normalize(cand), true
		}
	}
	return DefaultCulture, false
}

// Resolve applies the lookup order: cookie, then Accept-Language, then the default.
func Resolve(cookie, acceptLanguage string) string {
	if cookie != "" {
		if c, ok := DecodeCookie(cookie); ok {
			return c
		}
		return DefaultCulture
	}
	return FromAcceptLanguage(acceptLanguage)
}

func IsRTL(culture string) bool {
	return strings.HasPrefix(strings.ToLower(culture), "ar")
}

// DisplayName is the culture's name in its own language.
func DisplayName(culture string) string {
	tag, err := language.Parse(Normalize(culture))
	if err != nil {
		return culture
	}
	return display.Self.Name(tag)
}

// Bundle holds one flat key/message map per culture.
type Bundle struct {
	messages map[string]map[string]string
}

// Load reads <dir>/<culture>.yaml for every supported culture. Nested keys are
// flattened with dots. The default culture's file is required.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{messages: map[string]map[string]string{}}
	for _, c := range Supported {
		raw, err := os.ReadFile(filepath.Join(dir, c+".yaml"))
		if err != nil {
			if c == DefaultCulture {
				return nil, fmt.Errorf("i18n: %w", err)
			}
			continue
		}
		m, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("i18n: %s: %w", c, err)
		}
		b.messages[c] = m
	}
	b.merge()
	return b, nil
}

// Parse decodes one YAML bundle into a flat map.
func Parse(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	out := map[string]string{}
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

// NewBundle builds a bundle from in-memory maps.
func NewBundle(messages map[string]map[string]string) *Bundle {
	if messages == nil {
		messages = map[string]map[string]string{}
	}
	b := &Bundle{messages: messages}
	b.merge()
	return b
}

// merge overlays every culture on the default culture so lookups never miss a key
// the default defines.
func (b *Bundle) merge() {
	base := b.messages[DefaultCulture]
	for _, c := range Supported {
		if c == DefaultCulture {
			continue
		}
		merged := make(map[string]string, len(base))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range b.messages[c] {
			merged[k] = v
		}
		b.messages[c] = merged
	}
}

// Messages returns the message map for culture. Callers must not modify it.
func (b *Bundle) Messages(culture string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	if m, ok := b.messages[Normalize(culture)]; ok {
		return m
	}
	return map[string]string{}
}

// T looks up key for culture, falling back to the default culture and then to the key itself.
func (b *Bundle) T(culture, key string, args ...any) string {
	msg, ok := b.Messages(culture)[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
