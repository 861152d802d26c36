package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"snapledger/internal/expense"
)

func main() {
	fs := ff.NewFlagSet("snapledger-report")
	var (
		dbPath = fs.StringLong("db", "snapledger.db", "Database file path")
		start  = fs.StringLong("start", "", "Range start date (YYYY-MM-DD, inclusive)")
		end    = fs.StringLong("end", "", "Range end date (YYYY-MM-DD, inclusive)")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SNAPLEDGER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if (*start == "") != (*end == "") {
		fmt.Fprintln(os.Stderr, "error: --start and --end must be supplied together")
		os.Exit(1)
	}

	persister, err := expense.NewBoltPersister(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer persister.Close()

	store, err := expense.NewStore(persister)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading records: %v\n", err)
		os.Exit(1)
	}

	var records []expense.Record
	if *start != "" {
		records = store.QueryByDateRange(*start, *end)
	} else {
		records = store.List()
	}

	renderReport(os.Stdout, records)
}

func renderReport(out *os.File, records []expense.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Date", "Vendor", "Category", "Amount"})

	var total float64
	byCategory := make(map[expense.Category]float64)
	for _, r := range records {
		tw.AppendRow(table.Row{r.Date, r.Vendor, r.Category, fmt.Sprintf("%.2f", r.Amount)})
		total += r.Amount
		byCategory[r.Category] += r.Amount
	}
	tw.AppendFooter(table.Row{"", "", "Total", fmt.Sprintf("%.2f", total)})
	tw.Render()

	if len(records) == 0 {
		return
	}

	ct := table.NewWriter()
	ct.SetOutputMirror(out)
	ct.SetStyle(table.StyleRounded)
	ct.AppendHeader(table.Row{"Category", "Amount"})
	for _, c := range expense.Categories() {
		if amt, ok := byCategory[c]; ok {
			ct.AppendRow(table.Row{c, fmt.Sprintf("%.2f", amt)})
		}
	}
	ct.Render()
}
