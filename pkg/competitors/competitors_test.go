package competitors

import (
	"strings"
	"testing"

	"github.com/gulfbridge/medscout/pkg/record"
)

func TestIsOpportunity(t *testing.T) {
	cases := []struct {
		name    string
		company record.CompanyRecord
		want    bool
	}{
		{
			name:    "no gulf presence",
			company: record.CompanyRecord{GulfPresence: record.GulfNoneUnknown, DistributionModel: record.DistributionDirect},
			want:    true,
		},
		{
			name:    "seeking partners despite presence",
			company: record.CompanyRecord{GulfPresence: record.GulfHasDistributor, DistributionModel: record.DistributionSeekingPartners},
			want:    true,
		},
		{
			name:    "established distributor",
			company: record.CompanyRecord{GulfPresence: record.GulfHasDistributor, DistributionModel: record.DistributionDistributors},
			want:    false,
		},
		{
			name:    "direct office",
			company: record.CompanyRecord{GulfPresence: record.GulfDirectOffice, DistributionModel: record.DistributionDirect},
			want:    false,
		},
	}
	for _, c := range cases {
		if got := IsOpportunity(c.company); got != c.want {
			t.Errorf("%s: IsOpportunity = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMapCompetitors(t *testing.T) {
	companies := []record.CompanyRecord{
		{Name: "OpenCo", GulfPresence: record.GulfNoneUnknown, DistributionModel: record.DistributionUnknown},
		{Name: "EstablishedCo", GulfPresence: record.GulfHasDistributor, DistributionModel: record.DistributionDistributors},
	}

	notes := MapCompetitors("ventilators", companies)
	if len(notes) != 2 {
		t.Fatalf("expected a note per company, got %#v", notes)
	}
	if !strings.HasPrefix(notes["OpenCo"], "opportunity:") {
		t.Errorf("OpenCo note = %q, want opportunity prefix", notes["OpenCo"])
	}
	if !strings.Contains(notes["OpenCo"], "1 of 2") {
		t.Errorf("OpenCo note = %q, want opportunity count", notes["OpenCo"])
	}
	if !strings.HasPrefix(notes["EstablishedCo"], "has presence:") {
		t.Errorf("EstablishedCo note = %q, want presence prefix", notes["EstablishedCo"])
	}
}

func TestMajorPlayers(t *testing.T) {
	got := MajorPlayers("Ventilators")
	if len(got) == 0 {
		t.Fatal("expected known players for ventilators")
	}
	found := false
	for _, p := range got {
		if p == "Hamilton Medical" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Hamilton Medical in %#v", got)
	}

	if got := MajorPlayers("veterinary lasers"); len(got) != 0 {
		t.Errorf("expected no players for an unknown specialty, got %#v", got)
	}
}

func TestIntensity(t *testing.T) {
	cases := []struct {
		players int
		want    string
	}{
		{7, "High"},
		{6, "High"},
		{4, "Medium"},
		{2, "Low"},
		{0, "Low"},
	}
	for _, c := range cases {
		if got := Intensity(c.players); !strings.HasPrefix(got, c.want) {
			t.Errorf("Intensity(%d) = %q, want prefix %q", c.players, got, c.want)
		}
	}
}

func TestBuildMatrix_RanksByScore(t *testing.T) {
	companies := []record.CompanyRecord{
		{
			Name:              "LowScore",
			Certifications:    record.Certifications{CEMark: true},
			Products:          []string{"one"},
			GulfPresence:      record.GulfDirectOffice,
			DistributionModel: record.DistributionDirect,
		},
		{
			Name:           "TopTarget",
			Certifications: record.Certifications{CEMark: true, FDACleared: true, ISO13485: true},
			Products:       []string{"a", "b", "c", "d", "e", "f", "g"},
			GulfPresence:   record.GulfNoneUnknown,
		},
	}

	rows := BuildMatrix(companies)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %#v", rows)
	}
	if rows[0].Company != "TopTarget" {
		t.Errorf("top row = %q, want TopTarget", rows[0].Company)
	}
	// 3 certs + capped product breadth of 5 + 2 for the open market.
	if rows[0].Score != 10 {
		t.Errorf("TopTarget score = %d, want 10", rows[0].Score)
	}
	if rows[0].ProductBreadth != 7 {
		t.Errorf("ProductBreadth = %d, want the uncapped count 7", rows[0].ProductBreadth)
	}
	if rows[1].Score != 2 {
		t.Errorf("LowScore score = %d, want 2", rows[1].Score)
	}
}

func TestBuildMatrix_TiesKeepResearchOrder(t *testing.T) {
	companies := []record.CompanyRecord{
		{Name: "First", GulfPresence: record.GulfNoneUnknown},
		{Name: "Second", GulfPresence: record.GulfNoneUnknown},
	}
	rows := BuildMatrix(companies)
	if rows[0].Company != "First" || rows[1].Company != "Second" {
		t.Errorf("tie order changed: %#v", rows)
	}
}
