package utils

import (
	"math"
	"strings"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/shopspring/decimal"
)

// MapITRData turns an extracted return into the audit engine's ITR shape.
// Missing numbers become zero.
func MapITRData(res *dto.ExtractionResult) (dto.ITRData, error) {
	if err := requireFinancial(res); err != nil {
		return dto.ITRData{}, err
	}

	var itr dto.ITRData
	taxPaid, hasTaxPaid := decimal.Zero, false

	for _, acc := range res.Accounts {
		amount := accountAmount(acc)
		name := normalizeName(acc.AccountName)

		switch normalizeCategory(acc.Category) {
		case dto.CategorySalary:
			itr.Salary = itr.Salary.Add(amount)
		case dto.CategoryInterest:
			itr.InterestIncome = itr.InterestIncome.Add(amount)
		case dto.CategoryDividend:
			itr.DividendIncome = itr.DividendIncome.Add(amount)
		case dto.CategoryIncome:
			if strings.Contains(name, "capital gain") {
				itr.CapitalGains = itr.CapitalGains.Add(amount)
			}
		case dto.CategoryDeduction:
			addDeduction(&itr.Deductions, name, amount)
		case dto.CategoryTaxPaid:
			hasTaxPaid = true
			taxPaid = taxPaid.Add(amount)
			if isTDS(name) {
				itr.TDSClaimed = itr.TDSClaimed.Add(amount)
			}
		}
	}

	if hasTaxPaid {
		itr.TaxPaid = taxPaid
	} else {
		itr.TaxPaid = MoneyFromAmount(res.Summary.TotalTaxPaid)
	}
	return itr, nil
}

// MapAISData turns an extracted Annual Information Statement into AISData.
// Every account is also kept as a transaction line.
func MapAISData(res *dto.ExtractionResult) (dto.AISData, error) {
	if err := requireFinancial(res); err != nil {
		return dto.AISData{}, err
	}

	ais := dto.AISData{
		Transactions: make([]dto.AISTransaction, 0, len(res.Accounts)),
	}
	for _, acc := range res.Accounts {
		amount := accountAmount(acc)

		switch normalizeCategory(acc.Category) {
		case dto.CategorySalary:
			ais.Salary = ais.Salary.Add(amount)
		case dto.CategoryInterest:
			ais.InterestIncome = ais.InterestIncome.Add(amount)
		case dto.CategoryDividend:
			ais.DividendIncome = ais.DividendIncome.Add(amount)
		case dto.CategoryTaxPaid:
			if isTDS(normalizeName(acc.AccountName)) {
				ais.TDS = ais.TDS.Add(amount)
			}
		}

		ais.Transactions = append(ais.Transactions, dto.AISTransaction{
			Description: strings.TrimSpace(acc.AccountName),
			Amount:      amount,
		})
	}
	return ais, nil
}

// MapForm26ASData sums the TDS credits of an extracted Form 26AS, falling back
// to the summary's total tax paid when no tax_paid lines were found.
func MapForm26ASData(res *dto.ExtractionResult) (dto.Form26ASData, error) {
	if err := requireFinancial(res); err != nil {
		return dto.Form26ASData{}, err
	}

	total, found := decimal.Zero, false
	for _, acc := range res.Accounts {
		if normalizeCategory(acc.Category) == dto.CategoryTaxPaid {
			found = true
			if isTDS(normalizeName(acc.AccountName)) {
				total = total.Add(accountAmount(acc))
			}
		}
	}
	if !found {
		total = MoneyFromAmount(res.Summary.TotalTaxPaid)
	}
	return dto.Form26ASData{TotalTDS: total}, nil
}

// ComparatorIncome derives the regime comparator's inputs from an extraction:
// total income is the salary and income lines, else the summary's total income.
func ComparatorIncome(res *dto.ExtractionResult) (totalIncome, salaryIncome decimal.Decimal) {
	totalIncome, salaryIncome = decimal.Zero, decimal.Zero
	if res == nil {
		return totalIncome, salaryIncome
	}

	for _, acc := range res.Accounts {
		switch normalizeCategory(acc.Category) {
		case dto.CategorySalary:
			amount := accountAmount(acc)
			salaryIncome = salaryIncome.Add(amount)
			totalIncome = totalIncome.Add(amount)
		case dto.CategoryIncome:
			totalIncome = totalIncome.Add(accountAmount(acc))
		}
	}

	if totalIncome.IsZero() {
		totalIncome = MoneyFromAmount(res.Summary.TotalIncome)
	}
	return totalIncome, salaryIncome
}

func requireFinancial(res *dto.ExtractionResult) error {
	if res == nil || !res.IsFinancialDocument {
		return dto.ErrNotFinancialDocument
	}
	return nil
}

// accountAmount ignores the sign: the model reports flows as either credits or debits.
func accountAmount(acc dto.ExtractedAccount) decimal.Decimal {
	return MoneyFromFloat(math.Abs(acc.Amount.Float()))
}

// isTDS reports whether a tax_paid line is tax deducted or collected at source.
// Only advance and self-assessment tax are paid directly, so any tax_paid line
// not named as one of those counts, whatever the model called it.
func isTDS(name string) bool {
	if containsAny(name, "tds", "tcs", "tax deducted", "tax collected") {
		return true
	}
	return !containsAny(name, "advance tax", "self assessment", "self-assessment")
}

func addDeduction(d *dto.ITRDeductions, name string, amount decimal.Decimal) {
	switch {
	case strings.Contains(name, "80ccd"):
		// NPS contributions sit outside the 80C ceiling and are not audited.
	case strings.Contains(name, "80c"), containsAny(name, "ppf", "elss", "life insurance"):
		d.StatutoryInvestment = d.StatutoryInvestment.Add(amount)
	case strings.Contains(name, "80d"), containsAny(name, "health insurance", "mediclaim"):
		d.HealthInsurance = d.HealthInsurance.Add(amount)
	case strings.Contains(name, "80g"), strings.Contains(name, "donation"):
		d.Donations = d.Donations.Add(amount)
	case containsAny(name, "rent", "hra"):
		d.RentClaimed = d.RentClaimed.Add(amount)
	}
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// normalizeName lowercases and drops spaces inside section numbers so that
// "Sec 80 C" and "80C" compare equal.
func normalizeName(s string) string {
	s = strings.ToLower(NormalizeSpaces(s))
	return strings.NewReplacer("80 c", "80c", "80 d", "80d", "80 g", "80g").Replace(s)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
