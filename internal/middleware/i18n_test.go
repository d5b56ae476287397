package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestI18NPrefersExplicitLocaleHeader(t *testing.T) {
	var got string
	handler := I18N("en", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Locale", "FR-fr")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "fr" {
		t.Fatalf("locale = %q, want fr", got)
	}
}

func TestI18NFallsBackToAcceptLanguage(t *testing.T) {
	var got string
	handler := I18N("en", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.5")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "es" {
		t.Fatalf("locale = %q, want es", got)
	}
}

func TestI18NCountryFromLookup(t *testing.T) {
	var got string
	lookup := func(ip string) (string, error) { return "in", nil }
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CountryFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:4433"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "IN" {
		t.Fatalf("country = %q, want IN", got)
	}
}

func TestI18NCountryHintsLocale(t *testing.T) {
	var got string
	lookup := func(ip string) (string, error) { return "ID", nil }
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:4433"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "id" {
		t.Fatalf("locale = %q, want id", got)
	}
}

func TestI18NHeadersBeatCountryHint(t *testing.T) {
	var got string
	lookup := func(ip string) (string, error) { return "ID", nil }
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:4433"
	req.Header.Set("Accept-Language", "pt-BR")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "pt" {
		t.Fatalf("locale = %q, want pt", got)
	}
}

func TestI18NUnmappedCountryUsesDefault(t *testing.T) {
	var got string
	lookup := func(ip string) (string, error) { return "AQ", nil }
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:4433"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}
