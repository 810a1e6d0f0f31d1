// Package research drives the pipeline: search for manufacturers, then for
// each candidate scrape, enrich with FDA data and contacts, map the
// competitive landscape, and export to Notion. Everything runs sequentially;
// per-company failures degrade fields instead of aborting the run.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/ai"
	"github.com/gulfbridge/medscout/pkg/competitors"
	"github.com/gulfbridge/medscout/pkg/record"
)

// Config is built once at startup from flags/env and never mutated.
type Config struct {
	QueryTemplates []string
	TargetRoles    []string
	MaxCompanies   int
	OutputDir      string
}

type Searcher interface {
	Search(ctx context.Context, specialty string, templates []string) ([]record.CompanyCandidate, error)
}

type Scraper interface {
	Scrape(cand record.CompanyCandidate) (record.CompanyRecord, error)
}

type Regulatory interface {
	Lookup(companyName string) (record.RegulatoryResult, error)
}

type ContactFinder interface {
	Find(website string, roles []string) (*record.ContactResult, error)
}

type Exporter interface {
	Export(rec record.CompanyRecord) error
}

type Summarizer interface {
	Insights(ctx context.Context, specialty string, companies []record.CompanyRecord) (*ai.MarketInsights, error)
}

type Runner struct {
	cfg        Config
	search     Searcher
	scraper    Scraper
	regulatory Regulatory
	contacts   ContactFinder
	exporter   Exporter
	summarizer Summarizer // may be nil; insights are optional
}

func NewRunner(cfg Config, search Searcher, scraper Scraper, regulatory Regulatory, contacts ContactFinder, exporter Exporter, summarizer Summarizer) *Runner {
	if cfg.MaxCompanies <= 0 {
		cfg.MaxCompanies = 10
	}
	return &Runner{
		cfg:        cfg,
		search:     search,
		scraper:    scraper,
		regulatory: regulatory,
		contacts:   contacts,
		exporter:   exporter,
		summarizer: summarizer,
	}
}

// ResearchSpecialty runs the full single-specialty flow and writes the
// markdown report. The returned error is non-nil only for total failure
// (search unavailable or zero candidates).
func (r *Runner) ResearchSpecialty(ctx context.Context, specialty string) (record.SpecialtyReport, error) {
	start := time.Now()
	report := record.SpecialtyReport{
		Specialty: specialty,
		StartedAt: start,
	}

	utils.Log.Infof("researching specialty: %s", specialty)

	candidates, err := r.search.Search(ctx, specialty, r.cfg.QueryTemplates)
	if err != nil {
		report.Error = err.Error()
		report.Duration = time.Since(start)
		report.DurationSecs = report.Duration.Seconds()
		return report, err
	}
	if len(candidates) == 0 {
		report.Error = fmt.Sprintf("no candidates found for %q", specialty)
		report.Duration = time.Since(start)
		report.DurationSecs = report.Duration.Seconds()
		return report, fmt.Errorf("%s", report.Error)
	}
	if len(candidates) > r.cfg.MaxCompanies {
		candidates = candidates[:r.cfg.MaxCompanies]
	}
	utils.Log.Infof("found %d candidates for %s", len(candidates), specialty)

	companies := make([]record.CompanyRecord, 0, len(candidates))
	for _, cand := range candidates {
		companies = append(companies, r.researchCompany(specialty, cand))
	}

	// Competitive notes need the whole set, so they come after the loop.
	notes := competitors.MapCompetitors(specialty, companies)
	for i := range companies {
		if note, ok := notes[companies[i].Name]; ok {
			companies[i].Notes = appendNote(companies[i].Notes, note)
		}
	}

	for i := range companies {
		if err := r.exporter.Export(companies[i]); err != nil {
			utils.Log.Warnf("export failed for %s: %s", companies[i].Name, err)
			report.ExportFailures++
			continue
		}
		report.CompanyCount++
	}

	for _, c := range companies {
		if c.ContactEmail != "" {
			report.ContactsFound++
		}
		if c.Certifications.FDACleared {
			report.FDACleared++
		}
	}
	report.Companies = companies

	var insights *ai.MarketInsights
	if r.summarizer != nil {
		insights, err = r.summarizer.Insights(ctx, specialty, companies)
		if err != nil {
			utils.Log.Warnf("market insights unavailable for %s: %s", specialty, err)
			insights = nil
		}
	}

	report.Duration = time.Since(start)
	report.DurationSecs = report.Duration.Seconds()

	if r.cfg.OutputDir != "" {
		path, err := writeSpecialtyReport(r.cfg.OutputDir, report, insights)
		if err != nil {
			utils.Log.Warnf("failed to write report for %s: %s", specialty, err)
		} else {
			report.ReportPath = path
		}
	}

	utils.Log.Infof("completed %s: %d companies, %d contacts, %d FDA cleared (%.1fs)",
		specialty, report.CompanyCount, report.ContactsFound, report.FDACleared, report.DurationSecs)

	return report, nil
}

// researchCompany runs the per-candidate enrichment chain. Each step failing
// leaves its fields at their zero values and the chain continues.
func (r *Runner) researchCompany(specialty string, cand record.CompanyCandidate) record.CompanyRecord {
	utils.Log.Infof("scraping %s", cand.URL)

	rec, err := r.scraper.Scrape(cand)
	if err != nil {
		utils.Log.Warnf("scrape failed for %s: %s", cand.URL, err)
	}
	rec.Specialty = specialty
	rec.ResearchDate = time.Now()
	rec.Status = record.StatusResearched

	reg, err := r.regulatory.Lookup(rec.Name)
	if err != nil {
		utils.Log.Warnf("regulatory lookup failed for %s: %s", rec.Name, err)
		rec.Notes = appendNote(rec.Notes, "no clearance data (FDA lookup failed)")
	} else {
		applyRegulatory(&rec, reg)
	}

	contact, err := r.contacts.Find(rec.Website, r.cfg.TargetRoles)
	if err != nil {
		utils.Log.Warnf("contact lookup failed for %s: %s", rec.Name, err)
	}
	if contact != nil {
		rec.ContactEmail = contact.Email
		if contact.Name != "" || contact.Title != "" {
			rec.Notes = appendNote(rec.Notes, fmt.Sprintf("contact: %s (%s) via %s",
				strings.TrimSpace(contact.Name), contact.Title, contact.Source))
		}
	}

	return rec
}

// applyRegulatory folds the FDA profile into the record. Clearances make the
// FDA flag authoritative-true; an empty profile never clears a flag the
// scraper already set.
func applyRegulatory(rec *record.CompanyRecord, reg record.RegulatoryResult) {
	if reg.TotalClearances > 0 {
		rec.Certifications.FDACleared = true
		kNumbers := make([]string, 0, len(reg.Clearances))
		for _, cl := range reg.Clearances {
			if cl.KNumber != "" {
				kNumbers = append(kNumbers, cl.KNumber)
			}
		}
		note := fmt.Sprintf("%d FDA 510(k) clearance(s)", reg.TotalClearances)
		if len(kNumbers) > 0 {
			// Raw K-numbers stay in the notes: the name match is fuzzy and a
			// human should verify before outreach.
			if len(kNumbers) > 5 {
				kNumbers = kNumbers[:5]
			}
			note += ", e.g. " + strings.Join(kNumbers, ", ")
		}
		rec.Notes = appendNote(rec.Notes, note)
	}
	for _, risk := range reg.RiskNotes {
		rec.Notes = appendNote(rec.Notes, risk)
	}
	if len(reg.Registrations) > 0 {
		rec.Notes = appendNote(rec.Notes, "FDA-registered establishment")
	}
}

func appendNote(notes, note string) string {
	if note == "" {
		return notes
	}
	if notes == "" {
		return note
	}
	return notes + " | " + note
}
