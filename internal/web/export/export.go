// Package export renders record lists as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/applytrack/applytrack/internal/db/models"
)

// MIMEXLSX is the content type of xlsx workbooks.
const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Column is a header cell and the width of its column.
type Column struct {
	Header string
	Width  float64
}

// Sheet is a single worksheet with a bold header row.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Workbook renders s into an xlsx document.
func Workbook(s Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := make([]any, 0, len(s.Columns))
	for _, col := range s.Columns {
		headers = append(headers, col.Header)
	}

	if err := f.SetSheetRow(s.Name, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	last, err := excelize.ColumnNumberToName(max(len(s.Columns), 1))
	if err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellStyle(s.Name, "A1", last+"1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, col := range s.Columns {
		if col.Width <= 0 {
			continue
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}

		if err := f.SetColWidth(s.Name, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.WriteToBuffer()
}

// Send writes s as an xlsx attachment called filename.
func Send(c *fiber.Ctx, filename string, s Sheet) error {
	buf, err := Workbook(s)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, MIMEXLSX)
	c.Attachment(filename)

	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// Roles returns the worksheet of a role list.
func Roles(roles []models.Role) Sheet {
	s := Sheet{
		Name: "Roles",
		Columns: []Column{
			{Header: "ID", Width: 10},
			{Header: "Name", Width: 30},
			{Header: "Description", Width: 50},
			{Header: "Permissions", Width: 40},
		},
		Rows: make([][]any, 0, len(roles)),
	}

	for i := range roles {
		r := &roles[i]
		s.Rows = append(s.Rows, []any{r.ID, r.Name, r.Description, strings.Join(r.PermissionNames(), ", ")})
	}

	return s
}

// Applications returns the worksheet of an application list.
func Applications(apps []models.Application) Sheet {
	s := Sheet{
		Name: "Applications",
		Columns: []Column{
			{Header: "ID", Width: 10},
			{Header: "Position", Width: 30},
			{Header: "Company", Width: 30},
			{Header: "Company Website", Width: 30},
			{Header: "Link Application", Width: 30},
			{Header: "Status", Width: 20},
			{Header: "Notes", Width: 50},
			{Header: "Applied Date", Width: 20},
			{Header: "Contact Name", Width: 30},
			{Header: "Contact Linkedin", Width: 30},
		},
		Rows: make([][]any, 0, len(apps)),
	}

	for i := range apps {
		a := &apps[i]

		var name, linkedin string
		if a.Contact != nil {
			name, linkedin = a.Contact.Name, a.Contact.Linkedin
		}

		s.Rows = append(s.Rows, []any{
			a.ID, a.Position, a.Company, a.CompanyWebsite, a.LinkApplication,
			string(a.Status), a.Notes, formatDate(a.AppliedDate), name, linkedin,
		})
	}

	return s
}

// Contacts returns the worksheet of a contact list.
func Contacts(contacts []models.Contact) Sheet {
	s := Sheet{
		Name: "Contacts",
		Columns: []Column{
			{Header: "ID", Width: 10},
			{Header: "Name", Width: 30},
			{Header: "Email", Width: 30},
			{Header: "Linkedin", Width: 30},
			{Header: "Company", Width: 30},
		},
		Rows: make([][]any, 0, len(contacts)),
	}

	for i := range contacts {
		c := &contacts[i]
		s.Rows = append(s.Rows, []any{c.ID, c.Name, c.Email, c.Linkedin, c.Company})
	}

	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}
