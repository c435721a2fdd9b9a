package dto

import (
	"github.com/shopspring/decimal"
)

// TaxComparisonRequest is the body of POST /tax/compare.
type TaxComparisonRequest struct {
	TotalIncome  decimal.Decimal  `json:"total_income"`
	SalaryIncome decimal.Decimal  `json:"salary_income"`
	Deductions   DeductionProfile `json:"deductions"`
}

// NewTaxComparisonRequest returns a request pre-filled with the default
// deduction profile so that fields absent from the JSON body keep their defaults.
func NewTaxComparisonRequest() TaxComparisonRequest {
	return TaxComparisonRequest{Deductions: DefaultDeductionProfile()}
}

// AuditRequest is the body of POST /itr/audit.
type AuditRequest struct {
	ITR         ITRData      `json:"itr"`
	AIS         AISData      `json:"ais"`
	Form26AS    Form26ASData `json:"form_26as"`
	PreviousITR *ITRData     `json:"previous_itr,omitempty"`
}

type BatchAuditRequest struct {
	Audits []AuditRequest `json:"audits"`
}

// Validate performs basic validation on the request
func (r *BatchAuditRequest) Validate(maxAudits int) error {
	if len(r.Audits) == 0 {
		return ErrEmptyBatch
	}
	if maxAudits > 0 && len(r.Audits) > maxAudits {
		return ErrTooManyAudits
	}
	return nil
}
