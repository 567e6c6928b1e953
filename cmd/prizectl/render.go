package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shopspring/decimal"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// emit writes v as indented JSON or calls table to render it.
func (c *cli) emit(v any, table func(w io.Writer)) error {
	if c.format == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(c.out)
	return nil
}

func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func pct(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
