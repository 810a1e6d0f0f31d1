// Package scraper fetches a manufacturer's website and extracts the fields a
// business-development record needs. Extraction is keyword matching over the
// fetched pages, not semantic parsing.
package scraper

import (
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const (
	maxProducts    = 15
	maxCorpusChars = 12000
)

// keyPageKeywords map a page role to the link hrefs/texts that usually point
// at it. Only same-host links are followed; this is not a crawl.
var keyPageKeywords = map[string][]string{
	"about":        {"about", "about-us", "company", "who-we-are", "our-story"},
	"products":     {"products", "solutions", "devices", "equipment", "portfolio"},
	"contact":      {"contact", "contact-us", "get-in-touch", "reach-us"},
	"distributors": {"distributors", "distribution", "partners", "where-to-buy", "find-distributor", "international"},
}

type Scraper struct {
	client *retryablehttp.Client
}

func New() *Scraper {
	return &Scraper{client: whttp.GetDefaultClient()}
}

// Scrape fetches the homepage plus a small fixed set of likely sub-pages and
// fills in what it can. On fetch failure the returned record still carries
// the candidate's name and website so the pipeline can continue.
func (s *Scraper) Scrape(cand record.CompanyCandidate) (record.CompanyRecord, error) {
	rec := record.CompanyRecord{
		Name:              cand.Name,
		Website:           cand.URL,
		GulfPresence:      record.GulfNoneUnknown,
		DistributionModel: record.DistributionUnknown,
	}

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{URL: cand.URL, Method: "GET"}, s.client)
	if err != nil {
		return rec, fmt.Errorf("fetch %s: %w", cand.URL, err)
	}
	if res.StatusCode != 200 {
		return rec, fmt.Errorf("fetch %s: status %d", cand.URL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return rec, fmt.Errorf("parse %s: %w", cand.URL, err)
	}

	if name := extractCompanyName(doc, res.HTTPTitle, cand.URL); name != "" {
		rec.Name = name
	}

	corpus := pageText(res.BodyString)
	if desc := metaDescription(doc); desc != "" {
		rec.Notes = desc
	}

	pages := findKeyPages(doc, cand.URL)

	if aboutURL, ok := pages["about"]; ok {
		if text := s.fetchText(aboutURL); text != "" {
			corpus += "\n" + text
			rec.Headquarters = ExtractHeadquarters(text)
		}
	}

	if productsURL, ok := pages["products"]; ok {
		rec.Products = s.scrapeProducts(productsURL)
	}

	if contactURL, ok := pages["contact"]; ok {
		if body := s.fetchBody(contactURL); body != "" {
			corpus += "\n" + pageText(body)
			// Generic inbox as a fallback; the contact finder overrides it
			// when an enrichment provider has a real match.
			rec.ContactEmail = GenericEmail(ExtractEmails(body))
		}
	}

	if distURL, ok := pages["distributors"]; ok {
		if text := s.fetchText(distURL); text != "" {
			corpus += "\n" + text
		}
	}

	if len(corpus) > maxCorpusChars {
		corpus = corpus[:maxCorpusChars]
	}

	certs, _ := ClassifyCertifications(corpus)
	rec.Certifications = certs
	rec.GulfPresence, _ = ClassifyGulfPresence(corpus)
	rec.DistributionModel, _ = ClassifyDistribution(corpus)

	return rec, nil
}

// fetchBody returns the raw HTML of a sub-page, or "" on any error.
func (s *Scraper) fetchBody(pageURL string) string {
	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{URL: pageURL, Method: "GET"}, s.client)
	if err != nil || res.StatusCode != 200 {
		utils.Log.Debugf("sub-page fetch failed: %s", pageURL)
		return ""
	}
	return res.BodyString
}

// fetchText fetches a sub-page and converts it to plain markdown text,
// which strips tags and keeps the visible wording the heuristics match on.
func (s *Scraper) fetchText(pageURL string) string {
	body := s.fetchBody(pageURL)
	if body == "" {
		return ""
	}
	return pageText(body)
}

func pageText(html string) string {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return ""
	}
	return markdown
}

func (s *Scraper) scrapeProducts(pageURL string) []string {
	body := s.fetchBody(pageURL)
	if body == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var products []string
	doc.Find("h2, h3, .product-title, .product-name").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" || len(text) > 100 || seen[text] {
			return true
		}
		seen[text] = true
		products = append(products, text)
		return len(products) < maxProducts
	})
	return products
}

func extractCompanyName(doc *goquery.Document, htmlTitle, pageURL string) string {
	if siteName, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(siteName) != "" {
		return strings.TrimSpace(siteName)
	}
	if htmlTitle != "" {
		return utils.CleanTitle(htmlTitle)
	}
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		name := strings.Split(host, ".")[0]
		if name != "" {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return ""
}

func metaDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

// findKeyPages scans homepage links for about/products/contact/distributors
// pages. First match per role wins; off-site links are ignored.
func findKeyPages(doc *goquery.Document, baseURL string) map[string]string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	pages := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		linkText := strings.ToLower(strings.TrimSpace(sel.Text()))
		hrefLower := strings.ToLower(href)

		for role, keywords := range keyPageKeywords {
			if _, found := pages[role]; found {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(hrefLower, kw) || strings.Contains(linkText, kw) {
					ref, err := url.Parse(href)
					if err != nil {
						break
					}
					full := base.ResolveReference(ref)
					if full.Hostname() == base.Hostname() {
						pages[role] = full.String()
					}
					break
				}
			}
		}
	})
	return pages
}
