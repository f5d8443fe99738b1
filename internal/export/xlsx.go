// Package export writes stored leads to spreadsheet workbooks and reads
// profile URL lists back from them.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/model"
)

const (
	LeadsSheet   = "Leads"
	SummarySheet = "Summary"
)

// Header is the column layout of the Leads sheet.
var Header = []string{
	"URN",
	"Name",
	"Company",
	"Website",
	"Email",
	"Title",
	"Profile URL",
	"ICP Fit",
	"Reason",
	"Validation",
	"Validation Reason",
	"Profile Summary",
	"Company Summary",
	"Processed At",
}

func leadRow(l model.Lead) []string {
	processed := ""
	if !l.ProcessedAt.IsZero() {
		processed = l.ProcessedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		l.Identifier,
		l.Name,
		l.CompanyName,
		l.CompanyWebsite,
		l.Email,
		l.Title,
		l.ProfileURL,
		string(l.FitStrength),
		l.FitReason,
		string(l.ValidationJudgement),
		l.ValidationReason,
		l.ProfileSummary,
		l.CompanySummary,
		processed,
	}
}

// Workbook builds a workbook with a Leads sheet and a per-fit Summary sheet.
func Workbook(leads []model.Lead) (*xlsx.File, error) {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(LeadsSheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add leads sheet")
	}
	for _, c := range addRow(sheet, Header).Cells {
		c.GetStyle().Font.Bold = true
	}
	for _, l := range leads {
		addRow(sheet, leadRow(l))
	}

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add summary sheet")
	}
	addRow(summary, []string{"ICP Fit", "Leads"})
	counts := make(map[model.FitStrength]int)
	for _, l := range leads {
		counts[l.FitStrength]++
	}
	for _, fit := range []model.FitStrength{model.FitHigh, model.FitMedium, model.FitLow, model.FitUnsure} {
		row := summary.AddRow()
		row.AddCell().SetString(string(fit))
		row.AddCell().SetInt(counts[fit])
	}
	total := summary.AddRow()
	total.AddCell().SetString("Total")
	total.AddCell().SetInt(len(leads))

	return f, nil
}

func addRow(sheet *xlsx.Sheet, values []string) *xlsx.Row {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
	return row
}

// Write encodes the leads workbook to w.
func Write(w io.Writer, leads []model.Lead) error {
	f, err := Workbook(leads)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write workbook")
}

// WriteFile saves the leads workbook at path.
func WriteFile(path string, leads []model.Lead) error {
	f, err := Workbook(leads)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// ReadProfileURLs returns the non-blank cells of the first column of the
// first sheet, skipping a header row that is not itself a profile URL.
func ReadProfileURLs(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("export: %s has no sheets", path)
	}

	var urls []string
	for i, row := range f.Sheets[0].Rows {
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		v := strings.TrimSpace(row.Cells[0].String())
		if v == "" {
			continue
		}
		if i == 0 && !model.LooksLikeProfileURL(v) {
			continue
		}
		urls = append(urls, v)
	}
	return urls, nil
}
