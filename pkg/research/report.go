package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gulfbridge/medscout/pkg/ai"
	"github.com/gulfbridge/medscout/pkg/competitors"
	"github.com/gulfbridge/medscout/pkg/record"
)

// writeSpecialtyReport renders the human-readable markdown report for one
// specialty run and returns its path.
func writeSpecialtyReport(outputDir string, report record.SpecialtyReport, insights *ai.MarketInsights) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Research Report: %s\n\n", report.Specialty)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Companies exported: %d\n", report.CompanyCount)
	fmt.Fprintf(&b, "- Contacts found: %d\n", report.ContactsFound)
	fmt.Fprintf(&b, "- FDA cleared: %d\n", report.FDACleared)
	if report.ExportFailures > 0 {
		fmt.Fprintf(&b, "- Export failures: %d\n", report.ExportFailures)
	}
	fmt.Fprintf(&b, "- Duration: %.1fs\n\n", report.DurationSecs)

	if players := competitors.MajorPlayers(report.Specialty); len(players) > 0 {
		fmt.Fprintf(&b, "## Market Landscape\n\n")
		fmt.Fprintf(&b, "Known major players: %s\n\n", strings.Join(players, ", "))
		fmt.Fprintf(&b, "Competitive intensity: %s\n\n", competitors.Intensity(len(players)))
	}

	b.WriteString("## Companies\n\n")
	b.WriteString("| Company | HQ | CE | FDA | ISO 13485 | Gulf Presence | Distribution | Contact |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, c := range report.Companies {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Name, orDash(c.Headquarters),
			checkmark(c.Certifications.CEMark), checkmark(c.Certifications.FDACleared), checkmark(c.Certifications.ISO13485),
			c.GulfPresence, c.DistributionModel, orDash(c.ContactEmail))
	}
	b.WriteString("\n")

	if rows := competitors.BuildMatrix(report.Companies); len(rows) > 0 {
		b.WriteString("## Outreach Ranking\n\n")
		b.WriteString("| Rank | Company | Score | Certifications | Gulf Opportunity | Products |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for i, row := range rows {
			fmt.Fprintf(&b, "| %d | %s | %d | %d | %s | %d |\n",
				i+1, row.Company, row.Score, row.Certifications, yesNo(row.GulfOpportunity), row.ProductBreadth)
		}
		b.WriteString("\n")

		top := rows
		if len(top) > 3 {
			top = top[:3]
		}
		b.WriteString("### Recommendations\n\n")
		for _, row := range top {
			rationale := "established Gulf presence"
			if row.GulfOpportunity {
				rationale = "no existing Gulf distribution"
			}
			fmt.Fprintf(&b, "- **%s** (score %d): %s\n", row.Company, row.Score, rationale)
		}
		b.WriteString("\n")
	}

	if insights != nil {
		b.WriteString("## Market Insights\n\n")
		for _, line := range insights.Summary {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		if len(insights.Opportunities) > 0 {
			b.WriteString("\n### Top Opportunities\n\n")
			for _, line := range insights.Opportunities {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		}
		b.WriteString("\n")
	}

	path := filepath.Join(outputDir, reportFileName(report.Specialty))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func writeBatchSummary(outputDir string, summary BatchSummary) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "batch_summary.json"), data, 0o644)
}

func reportFileName(specialty string) string {
	name := strings.ToLower(strings.TrimSpace(specialty))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name + "_report.md"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func checkmark(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
