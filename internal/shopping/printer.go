package shopping

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/jung-kurt/gofpdf"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ContentType returns the MIME type of a print format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

// ParseFormat validates a format query value. Empty means pdf.
func ParseFormat(raw string) (string, error) {
	switch raw {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", &mealplan.ValidationError{Field: "format", Message: "format must be pdf or csv"}
	}
}

// Printer renders the shopping list for printing.
type Printer struct {
	now func() time.Time
}

// NewPrinter creates a printer stamping documents with the current time.
func NewPrinter() *Printer {
	return &Printer{now: time.Now}
}

// Render produces the document in the given format.
func (p *Printer) Render(format string, list mealplan.ShoppingList, plan planner.PlanView) ([]byte, error) {
	if format == FormatCSV {
		return p.CSV(list)
	}
	return p.PDF(list, plan)
}

// PDF renders the week's menu followed by the list with a checkbox per
// item. Text goes through cp1252, which is what the core fonts support.
func (p *Printer) PDF(list mealplan.ShoppingList, plan planner.PlanView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	fontName := "Arial"

	pdf.AddPage()
	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, "Shopping List")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, "Generated "+p.now().Format("Mon, 02 Jan 2006 15:04"))
	pdf.Ln(10)

	if assigned := plan.Assigned(); len(assigned) > 0 {
		pdf.SetFont(fontName, "B", 12)
		pdf.Cell(0, 8, "This week")
		pdf.Ln(8)
		pdf.SetFont(fontName, "", 10)
		for _, d := range assigned {
			pdf.CellFormat(30, 6, d.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(d.MealName), "", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont(fontName, "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont(fontName, "", 11)

	if list.Empty() {
		pdf.Cell(0, 7, EmptyListMessage(plan))
		pdf.Ln(7)
	}
	for _, item := range list.Items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		pdf.CellFormat(10, 7, box, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(item.Display()), "B", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renders one row per item.
func (p *Printer) CSV(list mealplan.ShoppingList) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ingredient", "count", "checked", "display"}); err != nil {
		return nil, err
	}
	for _, item := range list.Items {
		row := []string{
			item.Ingredient,
			strconv.Itoa(item.Count),
			strconv.FormatBool(item.Checked),
			item.Display(),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
