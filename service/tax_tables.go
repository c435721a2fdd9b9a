package service

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tables/fy2024-25.yaml
var defaultTablesYAML []byte

var defaultTables = mustParseTaxTables(defaultTablesYAML)

// Slab is one band of a progressive schedule. A nil Upper means unbounded.
type Slab struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
}

// Rebate is the small-taxpayer rebate (section 87A).
type Rebate struct {
	MaxTaxableIncome decimal.Decimal `json:"max_taxable_income"`
	Cap              decimal.Decimal `json:"cap"`
}

// RegimeRules describes one tax regime. StandardDeduction is the fixed
// deduction the regime grants regardless of the deduction profile; the legacy
// regime leaves it zero and uses the profile instead.
type RegimeRules struct {
	Regime            dto.Regime      `json:"regime"`
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	Rebate            Rebate          `json:"rebate"`
	Slabs             []Slab          `json:"slabs"`
}

// TaxTables is the complete rate card for one financial year.
// Values returned by DefaultTaxTables and LoadTaxTables are shared and must
// not be modified.
type TaxTables struct {
	FinancialYear     string               `json:"financial_year"`
	CessRate          decimal.Decimal      `json:"cess_rate"`
	DeductionCeilings dto.DeductionProfile `json:"deduction_ceilings"`
	Legacy            RegimeRules          `json:"legacy"`
	Simplified        RegimeRules          `json:"simplified"`
}

// DefaultTaxTables returns the embedded FY 2024-25 tables.
func DefaultTaxTables() *TaxTables {
	return defaultTables
}

// LoadTaxTables reads and validates a YAML rate card from disk.
func LoadTaxTables(path string) (*TaxTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax tables %s: %w", path, err)
	}
	tables, err := ParseTaxTables(data)
	if err != nil {
		return nil, fmt.Errorf("invalid tax tables %s: %w", path, err)
	}
	return tables, nil
}

type slabFile struct {
	Lower float64  `yaml:"lower"`
	Upper *float64 `yaml:"upper"`
	Rate  float64  `yaml:"rate"`
}

type regimeFile struct {
	StandardDeduction float64 `yaml:"standard_deduction"`
	Rebate            struct {
		MaxTaxableIncome float64 `yaml:"max_taxable_income"`
		Cap              float64 `yaml:"cap"`
	} `yaml:"rebate"`
	Slabs []slabFile `yaml:"slabs"`
}

type tablesFile struct {
	FinancialYear     string  `yaml:"financial_year"`
	CessRate          float64 `yaml:"cess_rate"`
	DeductionCeilings struct {
		StatutoryInvestment float64 `yaml:"statutory_investment"`
		HealthInsurance     float64 `yaml:"health_insurance"`
		RentExemption       float64 `yaml:"rent_exemption"`
		TravelAllowance     float64 `yaml:"travel_allowance"`
		StandardDeduction   float64 `yaml:"standard_deduction"`
		RetirementScheme    float64 `yaml:"retirement_scheme"`
	} `yaml:"deduction_ceilings"`
	Legacy     regimeFile `yaml:"legacy"`
	Simplified regimeFile `yaml:"simplified"`
}

// ParseTaxTables decodes a YAML rate card and checks that it is well formed.
func ParseTaxTables(data []byte) (*TaxTables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	c := f.DeductionCeilings
	tables := &TaxTables{
		FinancialYear: f.FinancialYear,
		CessRate:      decimal.NewFromFloat(f.CessRate),
		DeductionCeilings: dto.DeductionProfile{
			StatutoryInvestment: decimal.NewFromFloat(c.StatutoryInvestment),
			HealthInsurance:     decimal.NewFromFloat(c.HealthInsurance),
			RentExemption:       decimal.NewFromFloat(c.RentExemption),
			TravelAllowance:     decimal.NewFromFloat(c.TravelAllowance),
			StandardDeduction:   decimal.NewFromFloat(c.StandardDeduction),
			RetirementScheme:    decimal.NewFromFloat(c.RetirementScheme),
		},
		Legacy:     f.Legacy.toRules(dto.RegimeLegacy),
		Simplified: f.Simplified.toRules(dto.RegimeSimplified),
	}

	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (r regimeFile) toRules(regime dto.Regime) RegimeRules {
	rules := RegimeRules{
		Regime:            regime,
		StandardDeduction: decimal.NewFromFloat(r.StandardDeduction),
		Rebate: Rebate{
			MaxTaxableIncome: decimal.NewFromFloat(r.Rebate.MaxTaxableIncome),
			Cap:              decimal.NewFromFloat(r.Rebate.Cap),
		},
		Slabs: make([]Slab, 0, len(r.Slabs)),
	}
	for _, s := range r.Slabs {
		slab := Slab{
			Lower: decimal.NewFromFloat(s.Lower),
			Rate:  decimal.NewFromFloat(s.Rate),
		}
		if s.Upper != nil {
			upper := decimal.NewFromFloat(*s.Upper)
			slab.Upper = &upper
		}
		rules.Slabs = append(rules.Slabs, slab)
	}
	return rules
}

// Validate checks the structural invariants the slab walk relies on.
func (t *TaxTables) Validate() error {
	if t.FinancialYear == "" {
		return errors.New("financial_year is required")
	}
	if t.CessRate.IsNegative() || t.CessRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cess_rate %s out of range [0,1]", t.CessRate)
	}
	for _, ceiling := range []decimal.Decimal{
		t.DeductionCeilings.StatutoryInvestment, t.DeductionCeilings.HealthInsurance,
		t.DeductionCeilings.RentExemption, t.DeductionCeilings.TravelAllowance,
		t.DeductionCeilings.StandardDeduction, t.DeductionCeilings.RetirementScheme,
	} {
		if ceiling.IsNegative() {
			return fmt.Errorf("deduction ceiling %s is negative", ceiling)
		}
	}
	if err := t.Legacy.validate(); err != nil {
		return fmt.Errorf("legacy: %w", err)
	}
	if err := t.Simplified.validate(); err != nil {
		return fmt.Errorf("simplified: %w", err)
	}
	return nil
}

func (r RegimeRules) validate() error {
	if len(r.Slabs) == 0 {
		return errors.New("no slabs defined")
	}
	if r.StandardDeduction.IsNegative() || r.Rebate.Cap.IsNegative() || r.Rebate.MaxTaxableIncome.IsNegative() {
		return errors.New("standard deduction and rebate values must be non-negative")
	}
	if !r.Slabs[0].Lower.IsZero() {
		return fmt.Errorf("first slab must start at 0, got %s", r.Slabs[0].Lower)
	}
	one := decimal.NewFromInt(1)
	for i, s := range r.Slabs {
		if s.Rate.IsNegative() || s.Rate.GreaterThan(one) {
			return fmt.Errorf("slab %d: rate %s out of range [0,1]", i, s.Rate)
		}
		last := i == len(r.Slabs)-1
		if s.Upper == nil {
			if !last {
				return fmt.Errorf("slab %d: only the last slab may be unbounded", i)
			}
			continue
		}
		if last {
			return fmt.Errorf("slab %d: last slab must be unbounded", i)
		}
		if !s.Upper.GreaterThan(s.Lower) {
			return fmt.Errorf("slab %d: upper %s must exceed lower %s", i, *s.Upper, s.Lower)
		}
		if next := r.Slabs[i+1]; !next.Lower.Equal(*s.Upper) {
			return fmt.Errorf("slab %d: gap or overlap between %s and %s", i+1, *s.Upper, next.Lower)
		}
	}
	return nil
}

func mustParseTaxTables(data []byte) *TaxTables {
	tables, err := ParseTaxTables(data)
	if err != nil {
		panic(fmt.Sprintf("embedded tax tables: %v", err))
	}
	return tables
}
