// Package openfda queries the public openFDA device database for 510(k)
// clearances, recalls, and establishment registrations by company name.
// Matching is free-text, so results are best-effort and may include false
// positives for generic company names.
package openfda

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const defaultBaseURL = "https://api.fda.gov/device"

// The anonymous tier allows 240 requests/minute. With an API key the ceiling
// is high enough that a short courtesy delay suffices.
const (
	anonymousDelay = 1 * time.Second
	keyedDelay     = 250 * time.Millisecond
)

var searchTermRe = regexp.MustCompile(`[^\w\s\-.]`)

type Client struct {
	apiKey  string
	baseURL string
	client  *retryablehttp.Client

	mu       sync.Mutex
	delay    time.Duration
	lastCall time.Time
}

func NewClient(apiKey string) *Client {
	delay := anonymousDelay
	if apiKey != "" {
		delay = keyedDelay
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  whttp.GetDefaultClient(),
		delay:   delay,
	}
}

// SetBaseURL overrides the openFDA endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Lookup builds a best-effort FDA profile for a company: recent 510(k)
// clearances, recalls, and establishment registrations. Sub-lookups fail
// independently; an error is returned only when all of them failed.
func (c *Client) Lookup(companyName string) (record.RegulatoryResult, error) {
	var result record.RegulatoryResult
	var errs []string

	clearances, total, err := c.search510K(companyName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("510k: %s", err))
	} else {
		result.Clearances = clearances
		result.TotalClearances = total
	}

	recalls, recallTotal, err := c.searchRecalls(companyName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("recalls: %s", err))
	} else {
		result.Recalls = recalls
		if recallTotal > 0 {
			result.RiskNotes = append(result.RiskNotes, fmt.Sprintf("Company has %d recall(s) on record", recallTotal))
		}
	}

	registrations, err := c.searchRegistrations(companyName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("registrations: %s", err))
	} else {
		result.Registrations = registrations
	}

	if len(errs) == 3 {
		return record.RegulatoryResult{}, fmt.Errorf("fda lookup for %q: %s", companyName, strings.Join(errs, "; "))
	}
	for _, e := range errs {
		utils.Log.Debugf("partial fda lookup failure for %q: %s", companyName, e)
	}
	return result, nil
}

func (c *Client) search510K(companyName string) ([]record.Clearance, int, error) {
	body, err := c.get("510k.json", fmt.Sprintf(`applicant:"%s"`, cleanSearchTerm(companyName)), "decision_date:desc", 10)
	if err != nil {
		return nil, 0, err
	}
	if body == "" {
		return nil, 0, nil
	}

	var clearances []record.Clearance
	for _, item := range gjson.Get(body, "results").Array() {
		clearances = append(clearances, record.Clearance{
			KNumber:      gjson.Get(item.Raw, "k_number").Str,
			DeviceName:   gjson.Get(item.Raw, "device_name").Str,
			Applicant:    gjson.Get(item.Raw, "applicant").Str,
			DecisionDate: gjson.Get(item.Raw, "decision_date").Str,
		})
	}
	total := int(gjson.Get(body, "meta.results.total").Int())
	if total == 0 {
		total = len(clearances)
	}
	return clearances, total, nil
}

func (c *Client) searchRecalls(companyName string) ([]record.Recall, int, error) {
	body, err := c.get("recall.json", fmt.Sprintf(`recalling_firm:"%s"`, cleanSearchTerm(companyName)), "recall_initiation_date:desc", 5)
	if err != nil {
		return nil, 0, err
	}
	if body == "" {
		return nil, 0, nil
	}

	var recalls []record.Recall
	for _, item := range gjson.Get(body, "results").Array() {
		recalls = append(recalls, record.Recall{
			RecallNumber:       gjson.Get(item.Raw, "res_event_number").Str,
			ProductDescription: utils.Truncate(gjson.Get(item.Raw, "product_description").Str, 200),
			Reason:             utils.Truncate(gjson.Get(item.Raw, "reason_for_recall").Str, 200),
			Status:             gjson.Get(item.Raw, "status").Str,
			InitiationDate:     gjson.Get(item.Raw, "recall_initiation_date").Str,
		})
	}
	total := int(gjson.Get(body, "meta.results.total").Int())
	if total == 0 {
		total = len(recalls)
	}
	return recalls, total, nil
}

func (c *Client) searchRegistrations(companyName string) ([]record.Registration, error) {
	body, err := c.get("registrationlisting.json", fmt.Sprintf(`proprietor_name:"%s"`, cleanSearchTerm(companyName)), "", 10)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, nil
	}

	var registrations []record.Registration
	for _, item := range gjson.Get(body, "results").Array() {
		registrations = append(registrations, record.Registration{
			RegistrationNumber: gjson.Get(item.Raw, "registration.registration_number").Str,
			City:               gjson.Get(item.Raw, "city").Str,
			Country:            gjson.Get(item.Raw, "iso_country_code").Str,
		})
	}
	return registrations, nil
}

// get issues one throttled openFDA request. A 404 means "no matches" and is
// returned as an empty body with no error.
func (c *Client) get(endpoint, search, sort string, limit int) (string, error) {
	c.throttle()

	params := url.Values{}
	params.Set("search", search)
	params.Set("limit", fmt.Sprintf("%d", limit))
	if sort != "" {
		params.Set("sort", sort)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		URL:    fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()),
		Method: "GET",
	}, c.client)
	if err != nil {
		return "", err
	}
	if res.StatusCode == 404 {
		return "", nil
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("openFDA returned status %d", res.StatusCode)
	}
	return res.BodyString, nil
}

// throttle sleeps between consecutive requests instead of failing on 429s.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elapsed := time.Since(c.lastCall); elapsed < c.delay {
		time.Sleep(c.delay - elapsed)
	}
	c.lastCall = time.Now()
}

func cleanSearchTerm(term string) string {
	return strings.TrimSpace(searchTermRe.ReplaceAllString(term, ""))
}
