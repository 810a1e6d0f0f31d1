package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gulfbridge/medscout/pkg/record"
)

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.acme-medical.com/products/", "acme-medical.com"},
		{"http://ACME-Medical.COM", "acme-medical.com"},
		{"https://shop.acme-medical.com/about", "acme-medical.com"},
		{"https://www.example.co.uk/", "example.co.uk"},
		{"example.com", "example.com"},
		{"", ""},
		{"not a url at all", ""},
	}

	for _, c := range cases {
		if got := NormalizeDomain(c.in); got != c.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMergeCandidates_DeduplicatesByDomain(t *testing.T) {
	batches := [][]record.CompanyCandidate{
		{
			{Name: "Acme", URL: "https://www.acme.com"},
			{Name: "Beta", URL: "https://beta-med.com/products"},
		},
		{
			{Name: "Acme again", URL: "https://acme.com/about/"},
			{Name: "Gamma", URL: "https://gamma.io"},
		},
	}

	got := MergeCandidates(batches)
	if len(got) != 3 {
		t.Fatalf("expected 3 merged candidates, got %d: %#v", len(got), got)
	}
	// First occurrence wins, template order preserved.
	if got[0].Name != "Acme" || got[1].Name != "Beta" || got[2].Name != "Gamma" {
		t.Fatalf("unexpected merge order: %#v", got)
	}
}

func TestMergeCandidates_SkipsUnparseable(t *testing.T) {
	batches := [][]record.CompanyCandidate{
		{{Name: "Bad", URL: "::::"}, {Name: "Good", URL: "https://good.com"}},
	}

	got := MergeCandidates(batches)
	if len(got) != 1 || got[0].Name != "Good" {
		t.Fatalf("expected only the parseable candidate, got %#v", got)
	}
}

func TestSearch_MergesTemplates(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			t.Errorf("missing subscription token header")
		}
		calls++
		fmt.Fprintf(w, `{"web":{"results":[
			{"title":"Acme Medical | Home","url":"https://acme.com","description":"monitors"},
			{"title":"Result %d","url":"https://company%d.com","description":"devices"}
		]}}`, calls, calls)
	}))
	defer ts.Close()

	client := NewClient("test-key", 10)
	client.SetEndpoint(ts.URL)

	got, err := client.Search(context.Background(), "ventilators", []string{"{specialty} a", "{specialty} b"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 template requests, got %d", calls)
	}
	// acme.com deduplicated across templates: 1 + 2 unique per call.
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %#v", len(got), got)
	}
	if got[0].Name != "Acme Medical" {
		t.Fatalf("title suffix not cleaned: %q", got[0].Name)
	}
}

func TestSearch_AllTemplatesFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient("test-key", 10)
	client.SetEndpoint(ts.URL)
	client.client.RetryMax = 0

	_, err := client.Search(context.Background(), "ventilators", []string{"{specialty} a", "{specialty} b"})
	if err == nil {
		t.Fatal("expected an error when every template fails")
	}
}

func TestSearch_PartialTemplateFailureIsNonFatal(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"web":{"results":[{"title":"Acme","url":"https://acme.com","description":""}]}}`)
	}))
	defer ts.Close()

	client := NewClient("test-key", 10)
	client.SetEndpoint(ts.URL)
	client.client.RetryMax = 0

	got, err := client.Search(context.Background(), "ventilators", []string{"{specialty} a", "{specialty} b"})
	if err != nil {
		t.Fatalf("partial failure should not error: %s", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate from the surviving template, got %#v", got)
	}
}
