package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

const (
	pageWidth    = 277.0
	headerHeight = 8.0
	dayLineStep  = 4.0
)

var weekdayHeaders = [calendar.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthSchedule is a month grid with a short label per booked show.
type MonthSchedule struct {
	Title  string
	Grid   calendar.Grid
	Labels map[calendar.Date][]string
	Detail Dataset
}

// PDFExporter renders month schedules on landscape A4.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render draws the 6x7 month grid on the first page and, when the schedule
// carries detail rows, a table of them on the following pages.
func (e *PDFExporter) Render(schedule MonthSchedule) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(schedule.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	colWidth := pageWidth / float64(calendar.DaysPerWeek)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 240)
	for _, name := range weekdayHeaders {
		pdf.CellFormat(colWidth, headerHeight, name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	_, pageHeight := pdf.GetPageSize()
	_, top := pdf.GetXY()
	rowHeight := (pageHeight - top - 14) / float64(calendar.WeeksPerGrid)
	left, _, _, _ := pdf.GetMargins()

	for w, week := range schedule.Grid.Weeks() {
		y := top + float64(w)*rowHeight
		for d, day := range week {
			x := left + float64(d)*colWidth
			drawDayCell(pdf, tr, x, y, colWidth, rowHeight, day, schedule.Labels[day.Date])
		}
	}

	if len(schedule.Detail.Headers) > 0 && schedule.Detail.Len() > 0 {
		pdf.AddPage()
		drawTable(pdf, tr, schedule.Detail)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDayCell(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, day calendar.Day, labels []string) {
	if day.IsCurrentMonth {
		pdf.SetTextColor(20, 20, 20)
	} else {
		pdf.SetTextColor(160, 160, 160)
	}
	pdf.Rect(x, y, w, h, "D")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(x+1, y+1)
	pdf.CellFormat(w-2, dayLineStep, strconv.Itoa(day.Date.Day), "", 0, "R", false, 0, "")

	pdf.SetFont("Arial", "", 7)
	capacity := int((h-dayLineStep-2)/dayLineStep) - 1
	for i, label := range labels {
		pdf.SetXY(x+1, y+2+dayLineStep*float64(i+1))
		if i == capacity && len(labels) > capacity+1 {
			pdf.CellFormat(w-2, dayLineStep, fmt.Sprintf("+%d more", len(labels)-capacity), "", 0, "L", false, 0, "")
			break
		}
		pdf.CellFormat(w-2, dayLineStep, truncate(pdf, tr(label), w-2), "", 0, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, data Dataset) {
	colWidth := pageWidth / float64(len(data.Headers))
	pdf.SetFont("Arial", "B", 9)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 7, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 6, truncate(pdf, tr(row[header]), colWidth-1), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func truncate(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
