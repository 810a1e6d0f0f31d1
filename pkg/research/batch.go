package research

import (
	"context"
	"time"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
)

// BatchSummary aggregates one batch run across specialties. It is written as
// machine-readable JSON next to the per-specialty markdown reports.
type BatchSummary struct {
	StartedAt      time.Time                `json:"started_at"`
	CompletedAt    time.Time                `json:"completed_at"`
	DurationSecs   float64                  `json:"duration_seconds"`
	Specialties    int                      `json:"specialties"`
	TotalCompanies int                      `json:"total_companies"`
	TotalContacts  int                      `json:"total_contacts"`
	TotalFDA       int                      `json:"total_fda_cleared"`
	Failures       int                      `json:"failed_specialties"`
	Reports        []record.SpecialtyReport `json:"specialty_reports"`
}

// RunBatch processes specialties strictly in input order. A specialty that
// fails totally (search down, zero candidates) is recorded in the summary
// and never aborts the rest of the batch.
func (r *Runner) RunBatch(ctx context.Context, specialties []string) (BatchSummary, error) {
	start := time.Now()
	summary := BatchSummary{
		StartedAt:   start,
		Specialties: len(specialties),
	}

	for _, specialty := range specialties {
		report, err := r.ResearchSpecialty(ctx, specialty)
		if err != nil {
			utils.Log.Warnf("specialty %q failed: %s", specialty, err)
			summary.Failures++
		}
		summary.TotalCompanies += report.CompanyCount
		summary.TotalContacts += report.ContactsFound
		summary.TotalFDA += report.FDACleared
		summary.Reports = append(summary.Reports, report)
	}

	summary.CompletedAt = time.Now()
	summary.DurationSecs = summary.CompletedAt.Sub(start).Seconds()

	if r.cfg.OutputDir != "" {
		if err := writeBatchSummary(r.cfg.OutputDir, summary); err != nil {
			utils.Log.Warnf("failed to write batch summary: %s", err)
		}
	}

	return summary, nil
}

// TotalFailure reports whether every specialty in the batch failed, which is
// the only condition that makes the process exit nonzero.
func (s BatchSummary) TotalFailure() bool {
	return s.Specialties > 0 && s.Failures == s.Specialties
}
