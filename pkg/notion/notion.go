// Package notion upserts company records into a Notion database whose
// properties follow the fixed research schema (Company Name is the unique
// title key).
package notion

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"

	// Notion rich_text content caps at 2000 characters per block.
	richTextLimit = 2000
)

type Client struct {
	apiKey     string
	databaseID string
	baseURL    string
	client     *retryablehttp.Client
}

func NewClient(apiKey, databaseID string) *Client {
	return &Client{
		apiKey:     apiKey,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		client:     whttp.GetDefaultClient(),
	}
}

// SetBaseURL overrides the Notion endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Export upserts a company record: if a page titled with the company name
// already exists in the database its properties are updated, otherwise a new
// page is created.
func (c *Client) Export(rec record.CompanyRecord) error {
	pageID, err := c.findPage(rec.Name)
	if err != nil {
		return fmt.Errorf("query existing page for %q: %w", rec.Name, err)
	}

	properties, err := buildProperties(rec)
	if err != nil {
		return fmt.Errorf("build properties for %q: %w", rec.Name, err)
	}

	if pageID != "" {
		return c.updatePage(pageID, properties)
	}
	return c.createPage(properties)
}

// findPage returns the page ID of an existing record with the exact company
// name, or "" when none exists.
func (c *Client) findPage(companyName string) (string, error) {
	payload, _ := sjson.Set("{}", "filter.property", "Company Name")
	payload, _ = sjson.Set(payload, "filter.title.equals", companyName)

	res, err := c.send("POST", fmt.Sprintf("/databases/%s/query", c.databaseID), payload)
	if err != nil {
		return "", err
	}
	return gjson.Get(res, "results.0.id").Str, nil
}

func (c *Client) createPage(properties string) error {
	payload, _ := sjson.Set("{}", "parent.database_id", c.databaseID)
	payload, _ = sjson.SetRaw(payload, "properties", properties)

	_, err := c.send("POST", "/pages", payload)
	return err
}

func (c *Client) updatePage(pageID, properties string) error {
	payload, _ := sjson.SetRaw("{}", "properties", properties)

	_, err := c.send("PATCH", "/pages/"+pageID, payload)
	return err
}

func (c *Client) send(method, path, payload string) (string, error) {
	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		URL:    c.baseURL + path,
		Method: method,
		Body:   payload,
		Headers: []whttp.WHTTPHeader{
			{Name: "Authorization", Value: "Bearer " + c.apiKey},
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Notion-Version", Value: notionVersion},
		},
	}, c.client)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 {
		msg := gjson.Get(res.BodyString, "message").Str
		return "", fmt.Errorf("notion API status %d: %s", res.StatusCode, msg)
	}
	return res.BodyString, nil
}

// buildProperties maps a CompanyRecord 1:1 onto the database schema.
func buildProperties(rec record.CompanyRecord) (string, error) {
	p := "{}"
	var err error

	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		p, err = sjson.Set(p, path, value)
	}

	set("Company Name.title.0.text.content", rec.Name)
	set("Specialty.select.name", rec.Specialty)
	set("Headquarters.rich_text.0.text.content", rec.Headquarters)
	set("Products.rich_text.0.text.content", utils.Truncate(strings.Join(rec.Products, ", "), richTextLimit))
	if rec.Website != "" {
		set("Website.url", rec.Website)
	}
	set("CE Mark.checkbox", rec.Certifications.CEMark)
	set("FDA Cleared.checkbox", rec.Certifications.FDACleared)
	set("ISO 13485.checkbox", rec.Certifications.ISO13485)
	set("Gulf Presence.select.name", string(rec.GulfPresence))
	set("Distribution Model.select.name", string(rec.DistributionModel))
	if rec.ContactEmail != "" {
		set("Contact Email.email", rec.ContactEmail)
	}
	set("Notes.rich_text.0.text.content", utils.Truncate(rec.Notes, richTextLimit))
	set("Research Date.date.start", rec.ResearchDate.Format("2006-01-02"))
	set("Status.select.name", string(rec.Status))

	return p, err
}
