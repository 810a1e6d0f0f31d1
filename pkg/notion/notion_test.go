package notion

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gulfbridge/medscout/pkg/record"
)

// fakeNotion records pages keyed by title and answers the three API calls
// the client makes: database query, page create, page update.
type fakeNotion struct {
	pages   map[string]string // title -> page ID
	creates int
	updates int
	lastDoc string
}

func (f *fakeNotion) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/databases/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if got := gjson.GetBytes(body, "filter.property").Str; got != "Company Name" {
			t.Errorf("query filter property = %q, want %q", got, "Company Name")
		}
		title := gjson.GetBytes(body, "filter.title.equals").Str
		if id, ok := f.pages[title]; ok {
			fmt.Fprintf(w, `{"results": [{"id": "%s"}]}`, id)
			return
		}
		fmt.Fprint(w, `{"results": []}`)
	})

	mux.HandleFunc("/pages", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.creates++
		f.lastDoc = string(body)
		title := gjson.GetBytes(body, "properties.Company Name.title.0.text.content").Str
		f.pages[title] = fmt.Sprintf("page-%d", f.creates)
		fmt.Fprintf(w, `{"id": "%s"}`, f.pages[title])
	})

	mux.HandleFunc("/pages/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != "PATCH" {
			t.Errorf("page update method = %s, want PATCH", r.Method)
		}
		f.updates++
		f.lastDoc = string(body)
		fmt.Fprint(w, `{"id": "updated"}`)
	})

	return mux
}

func testRecord() record.CompanyRecord {
	return record.CompanyRecord{
		Name:         "Acme Medical",
		Specialty:    "ventilators",
		Website:      "https://acme-medical.com",
		Headquarters: "Boston, Massachusetts",
		Products:     []string{"VentMax", "OxyFlow"},
		Certifications: record.Certifications{
			CEMark:   true,
			ISO13485: true,
		},
		GulfPresence:      record.GulfNoneUnknown,
		DistributionModel: record.DistributionSeekingPartners,
		ContactEmail:      "sales@acme-medical.com",
		Notes:             "Meta description note",
		ResearchDate:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:            record.StatusResearched,
	}
}

func TestExport_CreatesThenUpdates(t *testing.T) {
	fake := &fakeNotion{pages: map[string]string{}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient("secret", "db-123")
	c.SetBaseURL(ts.URL)

	rec := testRecord()
	if err := c.Export(rec); err != nil {
		t.Fatalf("first export: %s", err)
	}
	if fake.creates != 1 || fake.updates != 0 {
		t.Fatalf("after first export: %d creates, %d updates", fake.creates, fake.updates)
	}

	// Exporting the same company again must update the existing page, never
	// create a duplicate.
	rec.Notes = "Updated after second pass"
	if err := c.Export(rec); err != nil {
		t.Fatalf("second export: %s", err)
	}
	if fake.creates != 1 || fake.updates != 1 {
		t.Fatalf("after second export: %d creates, %d updates", fake.creates, fake.updates)
	}
	if got := gjson.Get(fake.lastDoc, "properties.Notes.rich_text.0.text.content").Str; got != "Updated after second pass" {
		t.Errorf("updated notes = %q", got)
	}
}

func TestExport_PropertyMapping(t *testing.T) {
	fake := &fakeNotion{pages: map[string]string{}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient("secret", "db-123")
	c.SetBaseURL(ts.URL)

	if err := c.Export(testRecord()); err != nil {
		t.Fatalf("export: %s", err)
	}

	props := gjson.Get(fake.lastDoc, "properties")
	checks := []struct {
		path string
		want interface{}
	}{
		{"Company Name.title.0.text.content", "Acme Medical"},
		{"Specialty.select.name", "ventilators"},
		{"Headquarters.rich_text.0.text.content", "Boston, Massachusetts"},
		{"Products.rich_text.0.text.content", "VentMax, OxyFlow"},
		{"Website.url", "https://acme-medical.com"},
		{"CE Mark.checkbox", true},
		{"FDA Cleared.checkbox", false},
		{"ISO 13485.checkbox", true},
		{"Gulf Presence.select.name", "None/Unknown"},
		{"Distribution Model.select.name", "Seeking Partners"},
		{"Contact Email.email", "sales@acme-medical.com"},
		{"Research Date.date.start", "2026-03-14"},
		{"Status.select.name", "Researched"},
	}
	for _, c := range checks {
		got := props.Get(c.path).Value()
		if got != c.want {
			t.Errorf("property %q = %#v, want %#v", c.path, got, c.want)
		}
	}
}

func TestExport_OmitsEmptyURLAndEmail(t *testing.T) {
	fake := &fakeNotion{pages: map[string]string{}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient("secret", "db-123")
	c.SetBaseURL(ts.URL)

	rec := testRecord()
	rec.Website = ""
	rec.ContactEmail = ""
	if err := c.Export(rec); err != nil {
		t.Fatalf("export: %s", err)
	}

	if gjson.Get(fake.lastDoc, "properties.Website").Exists() {
		t.Error("Website property should be omitted when empty")
	}
	if gjson.Get(fake.lastDoc, `properties.Contact Email`).Exists() {
		t.Error("Contact Email property should be omitted when empty")
	}
}

func TestExport_TruncatesLongNotes(t *testing.T) {
	fake := &fakeNotion{pages: map[string]string{}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := NewClient("secret", "db-123")
	c.SetBaseURL(ts.URL)

	rec := testRecord()
	rec.Notes = strings.Repeat("x", 5000)
	if err := c.Export(rec); err != nil {
		t.Fatalf("export: %s", err)
	}

	got := gjson.Get(fake.lastDoc, "properties.Notes.rich_text.0.text.content").Str
	if len(got) != richTextLimit {
		t.Errorf("notes length = %d, want %d", len(got), richTextLimit)
	}
}

func TestExport_SurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "Company Name is not a property that exists"}`)
	}))
	defer ts.Close()

	c := NewClient("secret", "db-123")
	c.SetBaseURL(ts.URL)
	c.client.RetryMax = 0

	err := c.Export(testRecord())
	if err == nil {
		t.Fatal("expected an error from a 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("error = %q, want status in message", err)
	}
}