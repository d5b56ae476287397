package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores a best-effort locale and country in the request context. The
// locale steers the language of generated plans; the country is a fallback
// hint for requests that carry no locale headers at all.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := resolveCountry(r, lookup)
			locale := detectLocale(r, country, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// countryLocales maps ISO country codes to the language a visitor from there
// most likely wants. Only consulted when the request has no locale headers.
var countryLocales = map[string]string{
	"AR": "es", "AT": "de", "BR": "pt", "CH": "de", "CN": "zh",
	"CO": "es", "DE": "de", "EG": "ar", "ES": "es", "FR": "fr",
	"ID": "id", "IT": "it", "JP": "ja", "KR": "ko", "MX": "es",
	"MY": "ms", "NL": "nl", "PT": "pt", "RU": "ru", "SA": "ar",
	"TH": "th", "TR": "tr", "TW": "zh", "VN": "vi",
}

func detectLocale(r *http.Request, country, fallback string) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		return normalizeLocale(v)
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if v, ok := countryLocales[country]; ok {
		return v
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

func parseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		locale := strings.TrimSpace(strings.Split(part, ";")[0])
		if locale == "" {
			continue
		}
		return normalizeLocale(locale)
	}
	return ""
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	if locale == "" {
		return "en"
	}
	return locale
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func resolveCountry(r *http.Request, lookup CountryLookup) string {
	headerHints := []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}
