package geocode

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Search asks for a single result and converts Nominatim's string
// coordinates to floats.
func TestSearch_ResolvesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Stockholm" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("unexpected query parameters: %v", q)
		}
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("expected user agent %q, got %q", userAgent, ua)
		}
		fmt.Fprint(w, `[{"lat":"59.3251172","lon":"18.0710935","display_name":"Stockholm, Sweden"}]`)
	}))
	defer srv.Close()

	place, err := NewClient(srv.URL).Search("Stockholm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place == nil {
		t.Fatal("expected a place")
	}
	if math.Abs(place.Lat-59.3251172) > 1e-9 || math.Abs(place.Lng-18.0710935) > 1e-9 {
		t.Errorf("unexpected coordinates: %+v", place)
	}
	if place.DisplayName != "Stockholm, Sweden" {
		t.Errorf("unexpected display name: %q", place.DisplayName)
	}
}

// No match means nil place and nil error, so the handler can answer 404
// without treating it as a failure.
func TestSearch_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	place, err := NewClient(srv.URL).Search("zzzzzzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place != nil {
		t.Errorf("expected no place, got %+v", place)
	}
}

// Suggest raises the result limit to five.
func TestSuggest_ReturnsMultiple(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("expected limit 5, got %q", got)
		}
		fmt.Fprint(w, `[
			{"lat":"59.3","lon":"18.0","display_name":"Stockholm, Sweden"},
			{"lat":"59.2","lon":"17.8","display_name":"Stockholm County, Sweden"}
		]`)
	}))
	defer srv.Close()

	places, err := NewClient(srv.URL).Suggest("Stockho")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[1].DisplayName != "Stockholm County, Sweden" {
		t.Errorf("unexpected second place: %+v", places[1])
	}
}

// An upstream failure surfaces as an error.
func TestSearch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Search("Stockholm"); err == nil {
		t.Fatal("expected an error for a failing upstream")
	}
}
