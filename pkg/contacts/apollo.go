package contacts

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const apolloBaseURL = "https://api.apollo.io/v1"

// Apollo queries the Apollo.io people-search API, filtering by the
// configured target titles server-side.
type Apollo struct {
	apiKey  string
	baseURL string
	client  *retryablehttp.Client
}

func NewApollo(apiKey string) *Apollo {
	return &Apollo{
		apiKey:  apiKey,
		baseURL: apolloBaseURL,
		client:  whttp.GetDefaultClient(),
	}
}

// SetBaseURL overrides the Apollo endpoint. Used by tests.
func (a *Apollo) SetBaseURL(baseURL string) {
	a.baseURL = baseURL
}

func (a *Apollo) Name() string {
	return "apollo.io"
}

func (a *Apollo) FindContacts(domain string, roles []string) ([]record.ContactResult, error) {
	payload, _ := sjson.Set("{}", "api_key", a.apiKey)
	payload, _ = sjson.Set(payload, "q_organization_domains", domain)
	payload, _ = sjson.Set(payload, "person_titles", roles)
	payload, _ = sjson.Set(payload, "per_page", 10)

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		URL:    a.baseURL + "/mixed_people/search",
		Method: "POST",
		Body:   payload,
		Headers: []whttp.WHTTPHeader{
			{Name: "Content-Type", Value: "application/json"},
		},
	}, a.client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("apollo.io returned status %d", res.StatusCode)
	}

	var contacts []record.ContactResult
	for _, p := range gjson.Get(res.BodyString, "people").Array() {
		contacts = append(contacts, record.ContactResult{
			Name:        gjson.Get(p.Raw, "name").Str,
			Email:       gjson.Get(p.Raw, "email").Str,
			Title:       gjson.Get(p.Raw, "title").Str,
			LinkedInURL: gjson.Get(p.Raw, "linkedin_url").Str,
			Source:      a.Name(),
		})
	}
	return contacts, nil
}
