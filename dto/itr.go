package dto

import "github.com/shopspring/decimal"

// ITRData is the taxpayer's self-reported return, the subject of an audit.
type ITRData struct {
	Salary         decimal.Decimal `json:"salary"`
	InterestIncome decimal.Decimal `json:"interest_income"`
	DividendIncome decimal.Decimal `json:"dividend_income"`
	CapitalGains   decimal.Decimal `json:"capital_gains"`
	Deductions     ITRDeductions   `json:"deductions"`
	TaxPaid        decimal.Decimal `json:"tax_paid"`
	TDSClaimed     decimal.Decimal `json:"tds_claimed"`
}

type ITRDeductions struct {
	StatutoryInvestment decimal.Decimal `json:"statutory_investment"` // 80C
	HealthInsurance     decimal.Decimal `json:"health_insurance"`     // 80D
	Donations           decimal.Decimal `json:"donations"`            // 80G
	RentClaimed         decimal.Decimal `json:"rent_claimed"`
}

// AISData is the Annual Information Statement, ground truth for income.
type AISData struct {
	Salary         decimal.Decimal  `json:"salary"`
	InterestIncome decimal.Decimal  `json:"interest_income"`
	DividendIncome decimal.Decimal  `json:"dividend_income"`
	TDS            decimal.Decimal  `json:"tds"`
	Transactions   []AISTransaction `json:"transactions"`
}

type AISTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Form26ASData is the tax credit statement, ground truth for TDS.
type Form26ASData struct {
	TotalTDS decimal.Decimal `json:"total_tds"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type RiskScore string

const (
	RiskLow    RiskScore = "low"
	RiskMedium RiskScore = "medium"
	RiskHigh   RiskScore = "high"
)

// AuditIssue is one finding raised by the reconciliation engine.
type AuditIssue struct {
	ID               string           `json:"id"`
	Severity         Severity         `json:"severity"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Recommendation   string           `json:"recommendation"`
	SourceDocument   string           `json:"source_document"`
	AmountDifference *decimal.Decimal `json:"amount_difference,omitempty"`
}

type AuditSummary struct {
	TotalIncomeMismatches int `json:"total_income_mismatches"`
	TotalDeductionFlags   int `json:"total_deduction_flags"`
	TotalTDSMismatches    int `json:"total_tds_mismatches"`
}

type AuditResult struct {
	RiskScore RiskScore    `json:"risk_score"`
	Issues    []AuditIssue `json:"issues"`
	Summary   AuditSummary `json:"summary"`
}
