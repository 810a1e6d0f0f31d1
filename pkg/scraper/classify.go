package scraper

import (
	"regexp"
	"strings"

	"github.com/gulfbridge/medscout/pkg/record"
)

// Match records which keyword fired and where, so a reviewer can check why a
// page was classified the way it was.
type Match struct {
	Keyword string
	Index   int
}

var (
	ceMarkRe   = regexp.MustCompile(`(?i)CE\s*[Mm]ark(?:ed|ing)?`)
	fdaRe      = regexp.MustCompile(`(?i)(?:FDA\s*(?:510\(?k\)?|cleared|approved|registered)|510\(k\)\s*clear)`)
	iso13485Re = regexp.MustCompile(`(?i)ISO\s*13485`)

	headquartersRe = regexp.MustCompile(`(?i)(?:headquartered|based|head\s*office)\s+in\s+([A-Z][A-Za-z]+(?:[,\s]+[A-Z][A-Za-z]+){0,3})`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

var gulfKeywords = []string{
	"United Arab Emirates", "Saudi Arabia", "UAE", "Kuwait", "Qatar",
	"Bahrain", "Oman", "Dubai", "Abu Dhabi", "Riyadh", "Middle East", "Gulf",
}

var officeKeywords = []string{
	"regional office", "our office in", "local office", "branch office",
	"sales office", "subsidiary in",
}

var seekingKeywords = []string{
	"become a partner", "become a distributor", "seeking distributors",
	"looking for partners", "looking for distributors", "distributor wanted",
}

var distributorsKeywords = []string{
	"our distributors", "authorized distributors", "authorised distributors",
	"find a distributor", "where to buy", "distributor network",
}

var directKeywords = []string{
	"direct sales", "buy direct", "order online", "contact sales",
}

// ClassifyCertifications looks for certification keywords in scraped text.
// Pattern matching only: false positives and negatives are expected.
func ClassifyCertifications(text string) (record.Certifications, []Match) {
	var certs record.Certifications
	var matches []Match

	if loc := ceMarkRe.FindStringIndex(text); loc != nil {
		certs.CEMark = true
		matches = append(matches, Match{Keyword: text[loc[0]:loc[1]], Index: loc[0]})
	}
	if loc := fdaRe.FindStringIndex(text); loc != nil {
		certs.FDACleared = true
		matches = append(matches, Match{Keyword: text[loc[0]:loc[1]], Index: loc[0]})
	}
	if loc := iso13485Re.FindStringIndex(text); loc != nil {
		certs.ISO13485 = true
		matches = append(matches, Match{Keyword: text[loc[0]:loc[1]], Index: loc[0]})
	}

	return certs, matches
}

// ClassifyGulfPresence decides whether the company already covers the Gulf.
// A Gulf keyword plus office language means a direct office; a Gulf keyword
// plus distributor language means an existing distributor; anything else is
// unknown, which the competitor mapper treats as an opportunity.
func ClassifyGulfPresence(text string) (record.GulfPresence, []Match) {
	lower := strings.ToLower(text)

	gulfIdx := -1
	var gulfKw string
	for _, kw := range gulfKeywords {
		if idx := strings.Index(lower, strings.ToLower(kw)); idx >= 0 {
			gulfIdx = idx
			gulfKw = kw
			break
		}
	}
	if gulfIdx < 0 {
		return record.GulfNoneUnknown, nil
	}

	matches := []Match{{Keyword: gulfKw, Index: gulfIdx}}

	for _, kw := range officeKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			return record.GulfDirectOffice, append(matches, Match{Keyword: kw, Index: idx})
		}
	}
	if idx := strings.Index(lower, "distributor"); idx >= 0 {
		return record.GulfHasDistributor, append(matches, Match{Keyword: "distributor", Index: idx})
	}

	return record.GulfNoneUnknown, matches
}

// ClassifyDistribution infers the sales model from distributor-page language.
func ClassifyDistribution(text string) (record.DistributionModel, []Match) {
	lower := strings.ToLower(text)

	for _, kw := range seekingKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			return record.DistributionSeekingPartners, []Match{{Keyword: kw, Index: idx}}
		}
	}
	for _, kw := range distributorsKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			return record.DistributionDistributors, []Match{{Keyword: kw, Index: idx}}
		}
	}
	for _, kw := range directKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			return record.DistributionDirect, []Match{{Keyword: kw, Index: idx}}
		}
	}

	return record.DistributionUnknown, nil
}

// ExtractHeadquarters pulls a location out of "headquartered in ..." phrasing
// on an about page. Empty when no phrase matches.
func ExtractHeadquarters(text string) string {
	m := headquartersRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(m[1]), ",.")
}

// ExtractEmails returns deduplicated email addresses found in text, skipping
// image filenames that the regex would otherwise pick up.
func ExtractEmails(text string) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, e := range emailRe.FindAllString(text, -1) {
		lower := strings.ToLower(e)
		if strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".gif") || strings.HasSuffix(lower, ".svg") {
			continue
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		emails = append(emails, lower)
		if len(emails) >= 5 {
			break
		}
	}
	return emails
}

// GenericEmail picks the most outreach-friendly generic inbox from a list.
func GenericEmail(emails []string) string {
	for _, prefix := range []string{"sales@", "export@", "international@", "info@", "contact@"} {
		for _, e := range emails {
			if strings.HasPrefix(e, prefix) {
				return e
			}
		}
	}
	if len(emails) > 0 {
		return emails[0]
	}
	return ""
}
