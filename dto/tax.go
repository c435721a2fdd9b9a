package dto

import "github.com/shopspring/decimal"

type Regime string

const (
	RegimeLegacy     Regime = "legacy"
	RegimeSimplified Regime = "simplified"
)

// DeductionProfile holds the deductions claimed under the legacy regime.
// Amounts are whole rupees.
type DeductionProfile struct {
	StatutoryInvestment decimal.Decimal `json:"statutory_investment"` // 80C
	HealthInsurance     decimal.Decimal `json:"health_insurance"`     // 80D
	RentExemption       decimal.Decimal `json:"rent_exemption"`       // HRA
	TravelAllowance     decimal.Decimal `json:"travel_allowance"`     // LTA
	StandardDeduction   decimal.Decimal `json:"standard_deduction"`
	RetirementScheme    decimal.Decimal `json:"retirement_scheme"` // 80CCD(1B)
}

// DefaultDeductionProfile returns the profile used before the user customises anything.
func DefaultDeductionProfile() DeductionProfile {
	return DeductionProfile{
		StatutoryInvestment: decimal.NewFromInt(150000),
		HealthInsurance:     decimal.NewFromInt(25000),
		RentExemption:       decimal.Zero,
		TravelAllowance:     decimal.Zero,
		StandardDeduction:   decimal.NewFromInt(50000),
		RetirementScheme:    decimal.NewFromInt(50000),
	}
}

// Total sums every field of the profile.
func (p DeductionProfile) Total() decimal.Decimal {
	return decimal.Sum(p.StatutoryInvestment, p.HealthInsurance, p.RentExemption,
		p.TravelAllowance, p.StandardDeduction, p.RetirementScheme)
}

// SlabTax is the tax attributed to one slab of a regime.
type SlabTax struct {
	Lower   decimal.Decimal  `json:"lower"`
	Upper   *decimal.Decimal `json:"upper,omitempty"`
	Rate    decimal.Decimal  `json:"rate"`
	Taxable decimal.Decimal  `json:"taxable"`
	Tax     decimal.Decimal  `json:"tax"`
}

// TaxBreakdown is the computed liability under a single regime.
type TaxBreakdown struct {
	Regime        Regime          `json:"regime"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	Deductions    decimal.Decimal `json:"deductions"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Slabs         []SlabTax       `json:"slabs"`
	GrossTax      decimal.Decimal `json:"gross_tax"`
	Rebate        decimal.Decimal `json:"rebate"`
	NetTax        decimal.Decimal `json:"net_tax"`
	Cess          decimal.Decimal `json:"cess"`
	FinalTax      decimal.Decimal `json:"final_tax"`
}

type RegimeComparison struct {
	FinancialYear string           `json:"financial_year"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	SalaryIncome  decimal.Decimal  `json:"salary_income"`
	Profile       DeductionProfile `json:"deduction_profile"`
	Legacy        TaxBreakdown     `json:"legacy"`
	Simplified    TaxBreakdown     `json:"simplified"`
	LegacyTax     decimal.Decimal  `json:"legacy_tax"`
	SimplifiedTax decimal.Decimal  `json:"simplified_tax"`
	BetterRegime  Regime           `json:"better_regime"`
	Savings       decimal.Decimal  `json:"savings"`
}
