package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

func main() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
