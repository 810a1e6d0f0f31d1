// Package competitors classifies an already-researched company set for a
// specialty: who has Gulf presence, who is an opportunity, and how crowded
// the market is. Pure in-memory analysis, no external calls.
package competitors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gulfbridge/medscout/pkg/record"
)

// majorPlayers is reference data: the established global manufacturers per
// specialty, used to gauge competitive intensity.
var majorPlayers = map[string][]string{
	"patient monitoring":       {"Philips", "GE Healthcare", "Medtronic", "Nihon Kohden", "Mindray", "Dräger"},
	"ventilators":              {"Medtronic", "Philips", "GE Healthcare", "Dräger", "Hamilton Medical", "Getinge"},
	"infusion pumps":           {"BD", "Baxter", "B. Braun", "ICU Medical", "Fresenius Kabi", "Smiths Medical"},
	"defibrillators":           {"Philips", "Stryker", "ZOLL", "Nihon Kohden", "Cardiac Science"},
	"imaging":                  {"Siemens Healthineers", "GE Healthcare", "Philips", "Canon Medical", "Fujifilm", "Hologic"},
	"ultrasound":               {"GE Healthcare", "Philips", "Siemens", "Canon Medical", "Fujifilm", "Mindray"},
	"surgical equipment":       {"Stryker", "Medtronic", "Johnson & Johnson", "Zimmer Biomet", "Smith & Nephew"},
	"interventional radiology": {"Siemens", "Philips", "GE Healthcare", "Boston Scientific", "Cook Medical"},
	"picu":                     {"Philips", "GE Healthcare", "Dräger", "Nihon Kohden", "Mindray"},
	"nicu":                     {"Dräger", "GE Healthcare", "Philips", "Atom Medical", "Fanem"},
	"anesthesia":               {"Dräger", "GE Healthcare", "Mindray", "Penlon", "Spacelabs"},
	"laboratory":               {"Roche", "Abbott", "Siemens Healthineers", "Beckman Coulter", "Sysmex"},
}

// MapCompetitors tags each company in the set with a short competitive note:
// companies with no known Gulf distribution (or actively seeking partners)
// are business-development opportunities, the rest already have presence.
func MapCompetitors(specialty string, companies []record.CompanyRecord) map[string]string {
	notes := make(map[string]string, len(companies))
	opportunities := countOpportunities(companies)

	for _, c := range companies {
		if IsOpportunity(c) {
			notes[c.Name] = fmt.Sprintf("opportunity: no existing Gulf distribution (%d of %d researched %s companies are open)",
				opportunities, len(companies), specialty)
		} else {
			notes[c.Name] = fmt.Sprintf("has presence: %s, %s distribution", c.GulfPresence, c.DistributionModel)
		}
	}
	return notes
}

// IsOpportunity reports whether a company is a distribution opportunity:
// no known Gulf presence, or explicitly looking for partners.
func IsOpportunity(c record.CompanyRecord) bool {
	return c.GulfPresence == record.GulfNoneUnknown || c.DistributionModel == record.DistributionSeekingPartners
}

func countOpportunities(companies []record.CompanyRecord) int {
	n := 0
	for _, c := range companies {
		if IsOpportunity(c) {
			n++
		}
	}
	return n
}

// MajorPlayers returns the known established manufacturers whose specialty
// key overlaps the given specialty string.
func MajorPlayers(specialty string) []string {
	lower := strings.ToLower(specialty)
	seen := make(map[string]bool)
	var players []string
	for key, names := range majorPlayers {
		if !strings.Contains(lower, key) && !strings.Contains(key, lower) {
			continue
		}
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				players = append(players, name)
			}
		}
	}
	sort.Strings(players)
	return players
}

// Intensity summarizes how crowded a market is from the number of known
// major players in it.
func Intensity(numPlayers int) string {
	switch {
	case numPlayers >= 6:
		return "High - crowded market with many established players"
	case numPlayers >= 3:
		return "Medium - competitive but room for differentiation"
	default:
		return "Low - limited competition, opportunity for market entry"
	}
}

// MatrixRow is one company's score in the competitive matrix. Score weights
// Gulf opportunity double, since an open market matters more to outreach
// than one extra certification.
type MatrixRow struct {
	Company         string
	Certifications  int
	GulfOpportunity bool
	ProductBreadth  int
	Score           int
}

// BuildMatrix scores and ranks the researched set, best outreach target
// first. Ties keep the research order.
func BuildMatrix(companies []record.CompanyRecord) []MatrixRow {
	rows := make([]MatrixRow, 0, len(companies))
	for _, c := range companies {
		certScore := 0
		if c.Certifications.CEMark {
			certScore++
		}
		if c.Certifications.FDACleared {
			certScore++
		}
		if c.Certifications.ISO13485 {
			certScore++
		}

		productScore := len(c.Products)
		if productScore > 5 {
			productScore = 5
		}

		row := MatrixRow{
			Company:         c.Name,
			Certifications:  certScore,
			GulfOpportunity: IsOpportunity(c),
			ProductBreadth:  len(c.Products),
		}
		row.Score = certScore + productScore
		if row.GulfOpportunity {
			row.Score += 2
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}
