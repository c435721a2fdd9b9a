package service

import (
	"fmt"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/utils"
	"github.com/shopspring/decimal"
)

// Tolerances absorb rounding noise between independently sourced figures.
// Every comparison against them is strict.
var (
	interestTolerance = decimal.NewFromInt(100)
	dividendTolerance = decimal.NewFromInt(10)
	tdsTolerance      = decimal.NewFromInt(100)

	limit80C        = decimal.NewFromInt(150000)
	limit80D        = decimal.NewFromInt(100000)
	rentSalaryRatio = decimal.RequireFromString("0.5")
	salaryDropRatio = decimal.RequireFromString("0.7")
)

const (
	sourceAIS         = "AIS"
	sourceForm26AS    = "Form 26AS"
	sourceITR         = "ITR"
	sourcePreviousITR = "Previous ITR"
)

type counterKind int

const (
	countNone counterKind = iota
	countIncome
	countDeduction
	countTDS
)

type auditInput struct {
	itr      dto.ITRData
	ais      dto.AISData
	form26AS dto.Form26ASData
	previous *dto.ITRData
}

// auditRule is one row of the reconciliation policy. check returns the issue
// to raise, or false when the rule does not fire.
type auditRule struct {
	id       string
	severity dto.Severity
	counts   counterKind
	check    func(in auditInput) (dto.AuditIssue, bool)
}

// auditRules is evaluated in order; issue order follows it.
var auditRules = []auditRule{
	{id: "AIS_INT_MISMATCH", severity: dto.SeverityError, counts: countIncome, check: checkInterestMismatch},
	{id: "AIS_DIV_MISMATCH", severity: dto.SeverityWarning, counts: countIncome, check: checkDividendMismatch},
	{id: "TDS_NOT_CLAIMED", severity: dto.SeverityWarning, counts: countTDS, check: checkUnclaimedTDS},
	{id: "LIMIT_80C_EXCEEDED", severity: dto.SeverityError, counts: countDeduction, check: check80CLimit},
	{id: "LIMIT_80D_EXCEEDED", severity: dto.SeverityError, counts: countDeduction, check: check80DLimit},
	{id: "HIGH_RENT_CLAIM", severity: dto.SeverityWarning, counts: countDeduction, check: checkHighRent},
	{id: "YOY_SALARY_DROP", severity: dto.SeverityInfo, counts: countNone, check: checkSalaryDrop},
}

// AnalyzeITR reconciles a self-reported return against the AIS and Form 26AS,
// and against the previous year's return when one is given. It performs no
// validation and never mutates its inputs.
func AnalyzeITR(itr dto.ITRData, ais dto.AISData, form26AS dto.Form26ASData, previous *dto.ITRData) dto.AuditResult {
	in := auditInput{itr: itr, ais: ais, form26AS: form26AS, previous: previous}

	result := dto.AuditResult{
		Issues: make([]dto.AuditIssue, 0),
	}

	for _, rule := range auditRules {
		issue, fired := rule.check(in)
		if !fired {
			continue
		}
		issue.ID = rule.id
		issue.Severity = rule.severity
		result.Issues = append(result.Issues, issue)

		switch rule.counts {
		case countIncome:
			result.Summary.TotalIncomeMismatches++
		case countDeduction:
			result.Summary.TotalDeductionFlags++
		case countTDS:
			result.Summary.TotalTDSMismatches++
		}
	}

	result.RiskScore = riskScore(result.Summary)
	return result
}

// riskScore ranks income mismatches above everything else; two or more
// deduction flags are as serious as an income mismatch.
func riskScore(s dto.AuditSummary) dto.RiskScore {
	switch {
	case s.TotalIncomeMismatches > 0 || s.TotalDeductionFlags > 1:
		return dto.RiskHigh
	case s.TotalTDSMismatches > 0 || s.TotalDeductionFlags > 0:
		return dto.RiskMedium
	default:
		return dto.RiskLow
	}
}

func difference(source, reported decimal.Decimal) *decimal.Decimal {
	d := source.Sub(reported)
	return &d
}

func checkInterestMismatch(in auditInput) (dto.AuditIssue, bool) {
	reported, source := in.itr.InterestIncome, in.ais.InterestIncome
	if !source.IsPositive() || !source.GreaterThan(reported.Add(interestTolerance)) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "Interest Income Mismatch",
		Description: fmt.Sprintf("AIS shows %s interest, but only %s reported in ITR (difference %s).",
			utils.FormatINR(source), utils.FormatINR(reported), utils.FormatINR(source.Sub(reported))),
		Recommendation:   "Update ITR to include all interest income from bank statements and AIS.",
		SourceDocument:   sourceAIS,
		AmountDifference: difference(source, reported),
	}, true
}

func checkDividendMismatch(in auditInput) (dto.AuditIssue, bool) {
	reported, source := in.itr.DividendIncome, in.ais.DividendIncome
	if !source.IsPositive() || !source.GreaterThan(reported.Add(dividendTolerance)) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "Dividend Income Mismatch",
		Description: fmt.Sprintf("AIS shows %s dividend, but %s reported (difference %s).",
			utils.FormatINR(source), utils.FormatINR(reported), utils.FormatINR(source.Sub(reported))),
		Recommendation:   "Ensure all dividends reflected in AIS are reported in Schedule OS.",
		SourceDocument:   sourceAIS,
		AmountDifference: difference(source, reported),
	}, true
}

func checkUnclaimedTDS(in auditInput) (dto.AuditIssue, bool) {
	reported, source := in.itr.TDSClaimed, in.form26AS.TotalTDS
	if !source.GreaterThan(reported.Add(tdsTolerance)) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "Unclaimed TDS",
		Description: fmt.Sprintf("Form 26AS shows %s TDS, but only %s claimed (difference %s).",
			utils.FormatINR(source), utils.FormatINR(reported), utils.FormatINR(source.Sub(reported))),
		Recommendation:   "Claim the full TDS amount shown in Form 26AS to avoid losing tax credits.",
		SourceDocument:   sourceForm26AS,
		AmountDifference: difference(source, reported),
	}, true
}

func check80CLimit(in auditInput) (dto.AuditIssue, bool) {
	claimed := in.itr.Deductions.StatutoryInvestment
	if !claimed.GreaterThan(limit80C) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "80C Limit Exceeded",
		Description: fmt.Sprintf("Section 80C deduction claimed is %s, which exceeds the %s limit.",
			utils.FormatINR(claimed), utils.FormatINR(limit80C)),
		Recommendation: "Restrict 80C claims to the maximum statutory limit of ₹1.5 Lakh.",
		SourceDocument: sourceITR,
	}, true
}

func check80DLimit(in auditInput) (dto.AuditIssue, bool) {
	claimed := in.itr.Deductions.HealthInsurance
	if !claimed.GreaterThan(limit80D) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "80D Limit Exceeded",
		Description: fmt.Sprintf("Health insurance deduction of %s exceeds the %s ceiling available even for senior citizens and families.",
			utils.FormatINR(claimed), utils.FormatINR(limit80D)),
		Recommendation: "Verify premiums against actual receipts and statutory limits.",
		SourceDocument: sourceITR,
	}, true
}

func checkHighRent(in auditInput) (dto.AuditIssue, bool) {
	salary, rent := in.itr.Salary, in.itr.Deductions.RentClaimed
	if !salary.IsPositive() || !rent.GreaterThan(salary.Mul(rentSalaryRatio)) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "High Rent Claimed",
		Description: fmt.Sprintf("Rent claimed of %s exceeds 50%% of the reported salary income of %s.",
			utils.FormatINR(rent), utils.FormatINR(salary)),
		Recommendation: "Ensure you have rent receipts and PAN of the landlord as this is a high-risk flag.",
		SourceDocument: sourceITR,
	}, true
}

func checkSalaryDrop(in auditInput) (dto.AuditIssue, bool) {
	if in.previous == nil {
		return dto.AuditIssue{}, false
	}
	current, last := in.itr.Salary, in.previous.Salary
	if !current.LessThan(last.Mul(salaryDropRatio)) {
		return dto.AuditIssue{}, false
	}
	return dto.AuditIssue{
		Title: "Significant Salary Drop",
		Description: fmt.Sprintf("Your salary income of %s has dropped significantly compared to %s last year.",
			utils.FormatINR(current), utils.FormatINR(last)),
		Recommendation: "Maintain proof of job change or leave without pay for verification.",
		SourceDocument: sourcePreviousITR,
	}, true
}
