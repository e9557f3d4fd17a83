// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/iwvelando/flip-calculator/internal/calculator"
	"github.com/iwvelando/flip-calculator/pkg/constants"
	"github.com/iwvelando/flip-calculator/pkg/format"
)

// Report pairs the submitted figures with the server's summary.
type Report struct {
	Inputs calculator.Request `json:"inputs" yaml:"inputs"`
	Result calculator.Result  `json:"result" yaml:"result"`
}

type line struct {
	label string
	value float64
}

func inputLines(in calculator.Request) []line {
	return []line{
		{"purchase price", in.PurchasePrice},
		{"stamp duty", in.StampDuty},
		{"legal fees", in.LegalFees},
		{"agent fees buy", in.AgentFeesBuy},
		{"renovation costs", in.RenovationCosts},
		{"resale price", in.ResalePrice},
		{"selling costs", in.SellingCosts},
	}
}

// Write renders report in the named format.
func Write(w io.Writer, outputFormat string, report Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "--- Property flip summary ---\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-18s | %s\n%-18s | %s\n", "Item", "Amount", "____", "______"); err != nil {
		return err
	}
	for _, l := range inputLines(report.Inputs) {
		if _, err := fmt.Fprintf(w, "%-18s | %s\n", l.label, format.Currency(l.value)); err != nil {
			return err
		}
	}

	res := report.Result
	rows := []struct {
		label string
		value string
	}{
		{"Acquisition Cost", format.Currency(res.AcquisitionCost)},
		{"Total Cost", format.Currency(res.TotalCost)},
		{"Gross Profit", format.Currency(res.GrossProfit)},
		{"Profit Margin", format.Percent(res.ProfitMargin)},
	}
	if _, err := fmt.Fprintf(w, "%-18s | %s\n", "____", "______"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-18s | %s\n", row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"item", "amount"}}
	for _, l := range inputLines(report.Inputs) {
		records = append(records, []string{l.label, formatFloat(l.value)})
	}
	res := report.Result
	records = append(records,
		[]string{"acquisition cost", formatFloat(res.AcquisitionCost)},
		[]string{"total cost", formatFloat(res.TotalCost)},
		[]string{"gross profit", formatFloat(res.GrossProfit)},
		[]string{"profit margin", formatFloat(res.ProfitMargin)},
	)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// YAMLFormat outputs the report as YAML.
func YAMLFormat(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}
