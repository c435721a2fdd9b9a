package dto

// ExtractionResult mirrors the JSON returned by the document-extraction model.
// Numeric fields are pointers because the model omits or nulls them freely;
// nil reads as zero.
type ExtractionResult struct {
	IsFinancialDocument bool               `json:"is_financial_document"`
	Accounts            []ExtractedAccount `json:"accounts"`
	Insights            []ExtractedInsight `json:"insights,omitempty"`
	Summary             ExtractionSummary  `json:"summary"`
}

type ExtractedAccount struct {
	AccountName    string  `json:"account_name"`
	Category       string  `json:"category"`
	Amount         *Amount `json:"amount"`
	Classification string  `json:"classification"`
	Reasoning      string  `json:"reasoning,omitempty"`
	Details        string  `json:"details,omitempty"`
}

type ExtractedInsight struct {
	InsightType string `json:"insight_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
}

type ExtractionSummary struct {
	TotalIncome      *Amount `json:"total_income"`
	TotalDeductions  *Amount `json:"total_deductions"`
	TotalTaxPaid     *Amount `json:"total_tax_paid"`
	TotalAssets      *Amount `json:"total_assets"`
	TotalLiabilities *Amount `json:"total_liabilities"`
	TaxRegime        string  `json:"tax_regime"`
}

// Account categories emitted by the extraction prompt.
const (
	CategorySalary    = "salary"
	CategoryInterest  = "interest"
	CategoryDividend  = "dividend"
	CategoryDeduction = "deduction"
	CategoryTaxPaid   = "tax_paid"
	CategoryExpense   = "expense"
	CategoryIncome    = "income"
	CategoryOther     = "other"
)
