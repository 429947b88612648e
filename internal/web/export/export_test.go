package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/applytrack/applytrack/internal/db/models"
)

func readRows(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)

	return rows
}

func TestApplications(t *testing.T) {
	apps := []models.Application{
		{
			ID:          1,
			Position:    "Backend Engineer",
			Company:     "Globex",
			Status:      models.StatusInterview,
			AppliedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Contact:     &models.Contact{Name: "Ana", Linkedin: "in/ana"},
		},
		{
			ID:       2,
			Position: "SRE",
			Company:  "Initech",
			Status:   models.StatusApplied,
		},
	}

	buf, err := Workbook(Applications(apps))
	require.NoError(t, err)

	rows := readRows(t, buf, "Applications")
	require.Len(t, rows, 3)
	assert.Equal(t, "Position", rows[0][1])
	assert.Equal(t, "Contact Linkedin", rows[0][9])
	assert.Equal(t, []string{"1", "Backend Engineer", "Globex", "", "", "Interview", "", "2024-03-01", "Ana", "in/ana"}, rows[1])
	assert.Equal(t, "SRE", rows[2][1])
}

func TestRoles(t *testing.T) {
	roles := []models.Role{
		{ID: 1, Name: "Admin", Permissions: []models.Permission{{ID: 1, Name: "Create"}, {ID: 4, Name: "Delete"}}},
		{ID: 2, Name: "Viewer"},
	}

	buf, err := Workbook(Roles(roles))
	require.NoError(t, err)

	rows := readRows(t, buf, "Roles")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Description", "Permissions"}, rows[0])
	assert.Equal(t, "Create, Delete", rows[1][3])
	assert.Equal(t, "Viewer", rows[2][1])
}

func TestEmptySheetHasHeaderOnly(t *testing.T) {
	buf, err := Workbook(Contacts(nil))
	require.NoError(t, err)

	rows := readRows(t, buf, "Contacts")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ID", "Name", "Email", "Linkedin", "Company"}, rows[0])
}
