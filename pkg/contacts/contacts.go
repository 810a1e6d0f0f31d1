// Package contacts finds business-development contacts for a company through
// enrichment providers tried in a fixed order (Hunter.io, then Apollo.io).
package contacts

import (
	"net/url"
	"strings"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
)

// DefaultTargetRoles are the job-title keywords used when none are
// configured, ordered by outreach priority.
var DefaultTargetRoles = []string{
	"VP Sales", "Director Business Development", "Business Development",
	"VP International", "Export Manager", "Managing Director",
	"Regional Manager",
}

// Provider is one enrichment service. Implementations return every contact
// they know for a domain; selection happens in the Finder.
type Provider interface {
	Name() string
	FindContacts(domain string, roles []string) ([]record.ContactResult, error)
}

type Finder struct {
	providers []Provider
}

func NewFinder(providers ...Provider) *Finder {
	return &Finder{providers: providers}
}

// Find tries each provider in order and returns the best contact: the first
// one whose title contains a configured role keyword, else the first contact
// the provider returned at all. nil means no provider had a match.
func (f *Finder) Find(website string, roles []string) (*record.ContactResult, error) {
	domain := ExtractDomain(website)
	if domain == "" {
		return nil, nil
	}
	if len(roles) == 0 {
		roles = DefaultTargetRoles
	}

	for _, p := range f.providers {
		found, err := p.FindContacts(domain, roles)
		if err != nil {
			utils.Log.Warnf("%s lookup for %s failed: %s", p.Name(), domain, err)
			continue
		}
		if contact := selectContact(found, roles); contact != nil {
			return contact, nil
		}
	}
	return nil, nil
}

// selectContact prefers a role-keyword title match; with no title match, any
// contact with an email is better than none.
func selectContact(found []record.ContactResult, roles []string) *record.ContactResult {
	for i := range found {
		if found[i].Email == "" {
			continue
		}
		if matchesRole(found[i].Title, roles) {
			return &found[i]
		}
	}
	for i := range found {
		if found[i].Email != "" {
			return &found[i]
		}
	}
	return nil
}

func matchesRole(title string, roles []string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, role := range roles {
		if strings.Contains(lower, strings.ToLower(role)) {
			return true
		}
	}
	return false
}

// ExtractDomain reduces a website URL to its bare domain for provider
// queries: "https://www.acme.com/about" -> "acme.com".
func ExtractDomain(website string) string {
	s := strings.TrimSpace(website)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
