package contacts

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const hunterBaseURL = "https://api.hunter.io/v2"

// Hunter queries the Hunter.io domain-search API. Generic inboxes (info@,
// sales@) are skipped here; the scraper already collects those.
type Hunter struct {
	apiKey  string
	baseURL string
	client  *retryablehttp.Client
}

func NewHunter(apiKey string) *Hunter {
	return &Hunter{
		apiKey:  apiKey,
		baseURL: hunterBaseURL,
		client:  whttp.GetDefaultClient(),
	}
}

// SetBaseURL overrides the Hunter endpoint. Used by tests.
func (h *Hunter) SetBaseURL(baseURL string) {
	h.baseURL = baseURL
}

func (h *Hunter) Name() string {
	return "hunter.io"
}

func (h *Hunter) FindContacts(domain string, roles []string) ([]record.ContactResult, error) {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", h.apiKey)
	params.Set("limit", "15")

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		URL:    fmt.Sprintf("%s/domain-search?%s", h.baseURL, params.Encode()),
		Method: "GET",
	}, h.client)
	if err != nil {
		return nil, err
	}
	switch res.StatusCode {
	case 200:
	case 401:
		return nil, fmt.Errorf("invalid hunter.io API key")
	case 429:
		return nil, fmt.Errorf("hunter.io rate limit exceeded")
	default:
		return nil, fmt.Errorf("hunter.io returned status %d", res.StatusCode)
	}

	var contacts []record.ContactResult
	for _, e := range gjson.Get(res.BodyString, "data.emails").Array() {
		if gjson.Get(e.Raw, "type").Str == "generic" {
			continue
		}
		name := strings.TrimSpace(gjson.Get(e.Raw, "first_name").Str + " " + gjson.Get(e.Raw, "last_name").Str)
		contacts = append(contacts, record.ContactResult{
			Name:        name,
			Email:       gjson.Get(e.Raw, "value").Str,
			Title:       gjson.Get(e.Raw, "position").Str,
			LinkedInURL: gjson.Get(e.Raw, "linkedin").Str,
			Source:      h.Name(),
		})
	}
	return contacts, nil
}
