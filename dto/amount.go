package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var currencyNoise = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "INR", "", ",", "", " ", "")

// Amount is a number as written by the extraction model. It accepts JSON
// numbers and strings such as "₹1,50,000.00"; anything unparseable decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = 0
			return nil
		}
		raw = currencyNoise.Replace(strings.TrimSpace(s))
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount, treating nil as zero.
func (a *Amount) Float() float64 {
	if a == nil {
		return 0
	}
	return float64(*a)
}
