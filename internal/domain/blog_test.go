package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Build a To-Do App!  ", "build-a-to-do-app"},
		{"Go 1.24 released", "go-1-24-released"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTagsDedupes(t *testing.T) {
	got := NormalizeTags([]string{" golang ", "GOLANG", "", "web dev"})
	want := []string{"Golang", "Web Dev"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestGoogleTokensExpired(t *testing.T) {
	now := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	tokens := GoogleTokens{ExpiryDate: now.Add(time.Minute)}
	if tokens.Expired(now) {
		t.Fatal("token with future expiry reported expired")
	}
	if !tokens.Expired(now.Add(time.Minute)) {
		t.Fatal("token at expiry instant should be treated as expired")
	}
}
