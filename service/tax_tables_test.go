package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatTablesYAML = `
financial_year: "test"
cess_rate: 0
deduction_ceilings: {}
legacy:
  slabs:
    - { lower: 0, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`

func TestDefaultTaxTables(t *testing.T) {
	tables := DefaultTaxTables()

	require.NoError(t, tables.Validate())
	assert.Equal(t, "2024-25", tables.FinancialYear)
	assertDecimal(t, "0.04", tables.CessRate)
	assert.Len(t, tables.Legacy.Slabs, 4)
	assert.Len(t, tables.Simplified.Slabs, 6)
	assertDecimal(t, "75000", tables.Simplified.StandardDeduction)
	assertDecimal(t, "500000", tables.Legacy.Rebate.MaxTaxableIncome)
	assertDecimal(t, "12500", tables.Legacy.Rebate.Cap)
	assertDecimal(t, "700000", tables.Simplified.Rebate.MaxTaxableIncome)
	assertDecimal(t, "25000", tables.Simplified.Rebate.Cap)
	assert.Nil(t, tables.Simplified.Slabs[5].Upper)
}

func TestParseTaxTables_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "financial_year: [",
			wantErr: "decode yaml",
		},
		{
			name:    "missing financial year",
			yaml:    strings.Replace(flatTablesYAML, `financial_year: "test"`, "", 1),
			wantErr: "financial_year is required",
		},
		{
			name:    "cess above one",
			yaml:    strings.Replace(flatTablesYAML, "cess_rate: 0", "cess_rate: 1.5", 1),
			wantErr: "cess_rate",
		},
		{
			name: "no slabs",
			yaml: `
financial_year: "x"
legacy:
  slabs: []
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "legacy: no slabs defined",
		},
		{
			name: "first slab above zero",
			yaml: `
financial_year: "x"
legacy:
  slabs:
    - { lower: 100, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "first slab must start at 0",
		},
		{
			name: "gap between slabs",
			yaml: `
financial_year: "x"
legacy:
  slabs:
    - { lower: 0, upper: 100, rate: 0 }
    - { lower: 200, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "gap or overlap",
		},
		{
			name: "unbounded slab in the middle",
			yaml: `
financial_year: "x"
legacy:
  slabs:
    - { lower: 0, rate: 0 }
    - { lower: 100, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "only the last slab may be unbounded",
		},
		{
			name: "bounded last slab",
			yaml: `
financial_year: "x"
legacy:
  slabs:
    - { lower: 0, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, upper: 100, rate: 0.1 }
`,
			wantErr: "simplified: slab 0: last slab must be unbounded",
		},
		{
			name: "rate above one",
			yaml: `
financial_year: "x"
legacy:
  slabs:
    - { lower: 0, rate: 2 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "out of range",
		},
		{
			name: "negative ceiling",
			yaml: `
financial_year: "x"
deduction_ceilings:
  statutory_investment: -1
legacy:
  slabs:
    - { lower: 0, rate: 0.1 }
simplified:
  slabs:
    - { lower: 0, rate: 0.1 }
`,
			wantErr: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaxTables([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTaxTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(flatTablesYAML), 0o600))

	tables, err := LoadTaxTables(path)
	require.NoError(t, err)
	assert.Equal(t, "test", tables.FinancialYear)

	_, err = LoadTaxTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
