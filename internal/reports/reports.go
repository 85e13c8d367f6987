// Package reports renders the admin exports: a paginated PDF document and a
// tabular XLSX workbook over the full users/media/ratings dataset.
package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"ngplus/api/internal/models"
)

const (
	PDFFilename  = "ngplus_report.pdf"
	XLSXFilename = "ngplus_report.xlsx"

	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Dataset is the full materialized input for one report run. Users must
// already be redacted; media and ratings carry their joins.
type Dataset struct {
	Users   []models.User
	Media   []models.Media
	Ratings []models.Rating
}

// MediaStats is the per-media aggregate: how many ratings and their mean.
type MediaStats struct {
	Total   int
	Average float64
}

// Stats computes per-media rating count and arithmetic mean.
func (d Dataset) Stats(mediaID string) MediaStats {
	var total, sum int
	for _, r := range d.Ratings {
		if r.MediaID == mediaID {
			total++
			sum += r.Value
		}
	}
	if total == 0 {
		return MediaStats{}
	}
	return MediaStats{Total: total, Average: float64(sum) / float64(total)}
}

func ownerUsername(m models.Media) string {
	if m.Owner != nil {
		return m.Owner.Username
	}
	return m.UserID
}

func raterUsername(r models.Rating) string {
	if r.Rater != nil {
		return r.Rater.Username
	}
	return "N/A"
}

func ratedTitle(r models.Rating) string {
	if r.Media != nil {
		return r.Media.Title
	}
	return "N/A"
}

// BuildPDF renders the three-section document report.
func BuildPDF(d Dataset) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	section := func(title string) {
		pdf.SetFont("Helvetica", "BU", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	line := func(text string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, text, "", "L", false)
	}
	detail := func(text string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.MultiCell(0, 5, text, "", "L", false)
		pdf.Ln(2)
	}

	section("Users Report")
	for _, u := range d.Users {
		line(fmt.Sprintf("Username: %s (%s) - Email: %s", u.Username, u.AccountType, u.Email))
		detail(fmt.Sprintf("ID: %s | Ratings Given: %d | Created At: %s | Updated At: %s",
			u.ID, u.RatingCount, u.CreatedAt.Format("2006-01-02"), u.UpdatedAt.Format("2006-01-02")))
	}

	pdf.AddPage()
	section("Media Report")
	for _, m := range d.Media {
		stats := d.Stats(m.ID)
		line(fmt.Sprintf("Title: %s [%s]", m.Title, m.Category))
		detail(fmt.Sprintf("ID: %s | Owner: %s | Total Ratings: %d | Avg Rating: %.2f",
			m.ID, ownerUsername(m), stats.Total, stats.Average))
	}

	pdf.AddPage()
	section("Ratings Report")
	for _, r := range d.Ratings {
		line(fmt.Sprintf("Rating: %d stars - ID: %s", r.Value, r.ID))
		detail(fmt.Sprintf("User: %s | Media: %s | Created At: %s | Updated At: %s",
			raterUsername(r), ratedTitle(r), r.CreatedAt.Format("2006-01-02"), r.UpdatedAt.Format("2006-01-02")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the three-sheet workbook report.
func BuildXLSX(d Dataset) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := writeUsersSheet(wb, d); err != nil {
		return nil, err
	}
	if err := writeMediaSheet(wb, d); err != nil {
		return nil, err
	}
	if err := writeRatingsSheet(wb, d); err != nil {
		return nil, err
	}

	// excelize creates "Sheet1" by default; drop it once real sheets exist.
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeUsersSheet(wb *excelize.File, d Dataset) error {
	const sheet = "Users"
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	rows := [][]any{{"ID", "Username", "Email", "Account Type", "Ratings Given", "Created At", "Updated At"}}
	for _, u := range d.Users {
		rows = append(rows, []any{
			u.ID, u.Username, u.Email, string(u.AccountType), u.RatingCount,
			u.CreatedAt.Format("2006-01-02 15:04"), u.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return writeRows(wb, sheet, rows)
}

func writeMediaSheet(wb *excelize.File, d Dataset) error {
	const sheet = "Media"
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	rows := [][]any{{"ID", "Title", "Category", "Owner ID", "Owner Username", "Content URL", "Total Ratings", "Average Rating"}}
	for _, m := range d.Media {
		stats := d.Stats(m.ID)
		rows = append(rows, []any{
			m.ID, m.Title, string(m.Category), m.UserID, ownerUsername(m), m.ContentURL,
			stats.Total, float64(int(stats.Average*100)) / 100,
		})
	}
	return writeRows(wb, sheet, rows)
}

func writeRatingsSheet(wb *excelize.File, d Dataset) error {
	const sheet = "Ratings"
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	rows := [][]any{{"ID", "Rating", "User ID", "User Username", "Media ID", "Media Title", "Created At", "Updated At"}}
	for _, r := range d.Ratings {
		rows = append(rows, []any{
			r.ID, r.Value, r.UserID, raterUsername(r), r.MediaID, ratedTitle(r),
			r.CreatedAt.Format("2006-01-02 15:04"), r.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return writeRows(wb, sheet, rows)
}

func writeRows(wb *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
