package service

import (
	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/utils"
	"github.com/shopspring/decimal"
)

// CompareRegimes computes the liability under both regimes and reports the
// cheaper one. It never fails: negative amounts are treated as zero and every
// profile field is clamped to the ceiling declared in tables. salaryIncome is
// carried through to the result for display and does not affect the figures.
// A nil tables uses DefaultTaxTables.
func CompareRegimes(tables *TaxTables, totalIncome decimal.Decimal, profile dto.DeductionProfile, salaryIncome decimal.Decimal) dto.RegimeComparison {
	if tables == nil {
		tables = DefaultTaxTables()
	}

	income := utils.NonNegative(totalIncome)
	clamped := tables.ClampProfile(profile)

	legacy := computeRegime(tables.Legacy, tables.CessRate, income, clamped.Total())
	simplified := computeRegime(tables.Simplified, tables.CessRate, income, tables.Simplified.StandardDeduction)

	// Ties go to the simplified regime, the statutory default.
	better := dto.RegimeSimplified
	if legacy.FinalTax.LessThan(simplified.FinalTax) {
		better = dto.RegimeLegacy
	}

	return dto.RegimeComparison{
		FinancialYear: tables.FinancialYear,
		TotalIncome:   income,
		SalaryIncome:  utils.NonNegative(salaryIncome),
		Profile:       clamped,
		Legacy:        legacy,
		Simplified:    simplified,
		LegacyTax:     legacy.FinalTax,
		SimplifiedTax: simplified.FinalTax,
		BetterRegime:  better,
		Savings:       legacy.FinalTax.Sub(simplified.FinalTax).Abs(),
	}
}

// ClampProfile zeroes negative fields and caps each field at its ceiling.
// A zero ceiling leaves the field uncapped.
func (t *TaxTables) ClampProfile(p dto.DeductionProfile) dto.DeductionProfile {
	c := t.DeductionCeilings
	return dto.DeductionProfile{
		StatutoryInvestment: clampTo(p.StatutoryInvestment, c.StatutoryInvestment),
		HealthInsurance:     clampTo(p.HealthInsurance, c.HealthInsurance),
		RentExemption:       clampTo(p.RentExemption, c.RentExemption),
		TravelAllowance:     clampTo(p.TravelAllowance, c.TravelAllowance),
		StandardDeduction:   clampTo(p.StandardDeduction, c.StandardDeduction),
		RetirementScheme:    clampTo(p.RetirementScheme, c.RetirementScheme),
	}
}

func clampTo(v, ceiling decimal.Decimal) decimal.Decimal {
	v = utils.NonNegative(v)
	if ceiling.IsPositive() && v.GreaterThan(ceiling) {
		return ceiling
	}
	return v
}

func computeRegime(rules RegimeRules, cessRate, income, deductions decimal.Decimal) dto.TaxBreakdown {
	taxable := utils.NonNegative(income.Sub(deductions))
	slabs, gross := CalculateSlabTax(taxable, rules.Slabs)
	rebate := rules.Rebate.amount(taxable, gross)
	net := utils.NonNegative(gross.Sub(rebate))
	final := net.Mul(decimal.NewFromInt(1).Add(cessRate))

	return dto.TaxBreakdown{
		Regime:        rules.Regime,
		GrossIncome:   income,
		Deductions:    deductions,
		TaxableIncome: taxable,
		Slabs:         slabs,
		GrossTax:      gross,
		Rebate:        rebate,
		NetTax:        net,
		Cess:          final.Sub(net),
		FinalTax:      final,
	}
}

// CalculateSlabTax walks slabs in ascending order, taxing the part of taxable
// that falls in each [Lower, Upper). Slabs above taxable are not visited.
func CalculateSlabTax(taxable decimal.Decimal, slabs []Slab) ([]dto.SlabTax, decimal.Decimal) {
	breakdown := make([]dto.SlabTax, 0, len(slabs))
	total := decimal.Zero

	for _, s := range slabs {
		if !taxable.GreaterThan(s.Lower) {
			break
		}
		top := taxable
		if s.Upper != nil && s.Upper.LessThan(top) {
			top = *s.Upper
		}
		portion := top.Sub(s.Lower)
		tax := portion.Mul(s.Rate)
		total = total.Add(tax)

		breakdown = append(breakdown, dto.SlabTax{
			Lower:   s.Lower,
			Upper:   s.Upper,
			Rate:    s.Rate,
			Taxable: portion,
			Tax:     tax,
		})
	}
	return breakdown, total
}

func (r Rebate) amount(taxable, grossTax decimal.Decimal) decimal.Decimal {
	if taxable.GreaterThan(r.MaxTaxableIncome) {
		return decimal.Zero
	}
	return decimal.Min(grossTax, r.Cap)
}
