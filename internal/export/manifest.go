// Package export renders transfer lists for printing.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/erazemk/transferhub/internal/model"
)

type column struct {
	title string
	width float64
	value func(t model.Transfer, loc *time.Location) string
}

var columns = []column{
	{"Time", 30, func(t model.Transfer, loc *time.Location) string {
		return t.TransferDate.In(loc).Format("02 Jan 15:04")
	}},
	{"Guest", 45, func(t model.Transfer, _ *time.Location) string { return t.GuestName }},
	{"Room", 18, func(t model.Transfer, _ *time.Location) string { return t.RoomNumber }},
	{"Pax", 12, func(t model.Transfer, _ *time.Location) string { return strconv.Itoa(t.Passengers) }},
	{"Route", 85, func(t model.Transfer, _ *time.Location) string { return t.Route() }},
	{"Flight", 25, func(t model.Transfer, _ *time.Location) string { return t.FlightNumber }},
	{"Status", 25, func(t model.Transfer, _ *time.Location) string { return t.Status }},
}

// Manifest writes a landscape A4 PDF listing transfers in the given order,
// with times shown in loc.
func Manifest(w io.Writer, title string, transfers []model.Transfer, loc *time.Location, now time.Time) error {
	if loc == nil {
		loc = time.Local
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(0, 10, tr(title))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Cell(0, 6, "Printed "+now.In(loc).Format("2006-01-02 15:04 MST"))
		pdf.Ln(8)
		header()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	if len(transfers) == 0 {
		pdf.CellFormat(0, 8, "No transfers found.", "1", 1, "C", false, 0, "")
	}
	for _, t := range transfers {
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, tr(c.value(t, loc)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering manifest: %w", err)
	}
	return nil
}
