// Package record holds the data types shared by every pipeline stage, from
// search candidates through the exported company aggregate.
package record

import "time"

// GulfPresence describes whether a manufacturer already has Gulf-region
// distribution. Values match the Notion select options.
type GulfPresence string

const (
	GulfHasDistributor GulfPresence = "Has Distributor"
	GulfDirectOffice   GulfPresence = "Direct Office"
	GulfNoneUnknown    GulfPresence = "None/Unknown"
)

// DistributionModel describes how a manufacturer sells internationally.
type DistributionModel string

const (
	DistributionDirect          DistributionModel = "Direct"
	DistributionDistributors    DistributionModel = "Distributors"
	DistributionSeekingPartners DistributionModel = "Seeking Partners"
	DistributionUnknown         DistributionModel = "Unknown"
)

// Status is the business-development pipeline stage of a company.
type Status string

const (
	StatusResearched   Status = "Researched"
	StatusToContact    Status = "To Contact"
	StatusInDiscussion Status = "In Discussion"
	StatusNotFit       Status = "Not Fit"
)

// CompanyCandidate is a raw search hit: a possible manufacturer page before
// any scraping has happened. Not persisted.
type CompanyCandidate struct {
	Name    string
	URL     string
	Snippet string
}

// Certifications are the regulatory marks detectable from a company's site
// and from the FDA database.
type Certifications struct {
	CEMark     bool `json:"ce_mark"`
	FDACleared bool `json:"fda_cleared"`
	ISO13485   bool `json:"iso_13485"`
}

// CompanyRecord is the aggregate built up by the pipeline and exported to
// Notion. Optional enrichment fields stay zero when a provider had no match.
type CompanyRecord struct {
	Name              string            `json:"name"`
	Specialty         string            `json:"specialty"`
	Headquarters      string            `json:"headquarters,omitempty"`
	Products          []string          `json:"products,omitempty"`
	Website           string            `json:"website"`
	Certifications    Certifications    `json:"certifications"`
	GulfPresence      GulfPresence      `json:"gulf_presence"`
	DistributionModel DistributionModel `json:"distribution_model"`
	ContactEmail      string            `json:"contact_email,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	ResearchDate      time.Time         `json:"research_date"`
	Status            Status            `json:"status"`
}

// Clearance is one 510(k) entry from the FDA device database.
type Clearance struct {
	KNumber      string `json:"k_number"`
	DeviceName   string `json:"device_name"`
	Applicant    string `json:"applicant"`
	DecisionDate string `json:"decision_date"`
}

// Recall is one device recall entry.
type Recall struct {
	RecallNumber       string `json:"recall_number"`
	ProductDescription string `json:"product_description"`
	Reason             string `json:"reason"`
	Status             string `json:"status"`
	InitiationDate     string `json:"initiation_date"`
}

// Registration is one FDA establishment registration.
type Registration struct {
	RegistrationNumber string `json:"registration_number"`
	City               string `json:"city"`
	Country            string `json:"country"`
}

// RegulatoryResult is a best-effort FDA profile for a company. Matching is
// free-text on the applicant name, so false positives for generic company
// names are expected; the raw K-numbers are kept so a human can verify.
type RegulatoryResult struct {
	Clearances      []Clearance    `json:"clearances"`
	Recalls         []Recall       `json:"recalls"`
	Registrations   []Registration `json:"registrations"`
	TotalClearances int            `json:"total_clearances"`
	RiskNotes       []string       `json:"risk_notes,omitempty"`
}

// ContactResult is a single business-development contact from an enrichment
// provider.
type ContactResult struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Source      string `json:"source"`
}

// SpecialtyReport summarizes one specialty run. CompanyCount is the number
// of records successfully exported; failed exports are counted separately.
type SpecialtyReport struct {
	Specialty      string          `json:"specialty"`
	CompanyCount   int             `json:"company_count"`
	ContactsFound  int             `json:"contacts_found"`
	FDACleared     int             `json:"fda_cleared"`
	ExportFailures int             `json:"export_failures"`
	StartedAt      time.Time       `json:"started_at"`
	Duration       time.Duration   `json:"-"`
	DurationSecs   float64         `json:"duration_seconds"`
	Companies      []CompanyRecord `json:"companies"`
	ReportPath     string          `json:"report_path,omitempty"`
	Error          string          `json:"error,omitempty"`
}
