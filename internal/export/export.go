// Package export writes projections as CSV or XML files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/beevik/etree"
)

const dateLayout = "2006-01-02"

// Supported formats
const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// ContentType returns the MIME type of a format
func ContentType(format string) string {
	if format == FormatXML {
		return "application/xml; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Write renders p in the given format
func Write(w io.Writer, format string, p *forecast.Projection) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, p)
	case FormatXML:
		return WriteXML(w, p)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes a header block followed by one row per event
func WriteCSV(w io.Writer, p *forecast.Projection) error {
	csvWriter := csv.NewWriter(w)

	header := [][]string{
		{"Cashflow Projection"},
		{"As of", p.AsOf.Format(dateLayout)},
		{"Horizon days", strconv.Itoa(p.HorizonDays)},
		{"Starting balance", money(p.StartingBalance)},
		{"Ending balance", money(p.EndingBalance)},
		{},
		{"Date", "Description", "Direction", "Amount", "Running balance"},
	}
	for _, row := range header {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, ev := range p.Events {
		row := []string{
			ev.Date.Format(dateLayout),
			ev.Description,
			string(ev.Direction),
			money(ev.Amount),
			money(ev.RunningBalance),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteXML writes the projection as an indented XML document
func WriteXML(w io.Writer, p *forecast.Projection) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Projection")
	root.CreateAttr("asOf", p.AsOf.Format(dateLayout))
	root.CreateAttr("horizonDays", strconv.Itoa(p.HorizonDays))
	root.CreateElement("StartingBalance").SetText(money(p.StartingBalance))
	root.CreateElement("EndingBalance").SetText(money(p.EndingBalance))

	events := root.CreateElement("Events")
	for _, ev := range p.Events {
		el := events.CreateElement("Event")
		el.CreateAttr("date", ev.Date.Format(dateLayout))
		el.CreateAttr("direction", string(ev.Direction))
		if ev.SourceID != "" {
			el.CreateAttr("source", ev.SourceID)
		}
		el.CreateElement("Description").SetText(ev.Description)
		el.CreateElement("Amount").SetText(money(ev.Amount))
		el.CreateElement("RunningBalance").SetText(money(ev.RunningBalance))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
