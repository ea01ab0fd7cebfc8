// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects how results are printed
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Printer writes results to a destination in a fixed format
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer writing to w. Unknown formats fall back to table.
func NewPrinter(w io.Writer, format string) *Printer {
	f := Format(format)
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
	default:
		f = FormatTable
	}
	return &Printer{w: w, format: f}
}

// Format returns the effective output format
func (p *Printer) Format() Format {
	return p.format
}

// Print writes data as JSON or YAML, or as a table built from headers and rows
func (p *Printer) Print(data interface{}, headers []string, rows [][]string) error {
	switch p.format {
	case FormatJSON:
		return p.PrintJSON(data)
	case FormatYAML:
		return p.PrintYAML(data)
	default:
		p.PrintTable(headers, rows)
		return nil
	}
}

// PrintJSON writes data as indented JSON
func (p *Printer) PrintJSON(data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML writes data as YAML
func (p *Printer) PrintYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// PrintTable writes tabular data
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)

	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, col := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, col)
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

// PrintError writes an error message to stderr
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
