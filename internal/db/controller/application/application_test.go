package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/controller/listing"
	"github.com/applytrack/applytrack/internal/db/dbtest"
	"github.com/applytrack/applytrack/internal/db/models"
)

func newApplication(company string) *models.Application {
	return &models.Application{
		Position:        "Backend Engineer",
		Company:         company,
		CompanyWebsite:  "https://" + company + ".example",
		LinkApplication: "https://jobs.example/" + company,
		AppliedDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Contact: &models.Contact{
			Name:    "Recruiter " + company,
			Email:   "hr@" + company + ".example",
			Company: company,
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)

	return n
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)

	app, err := Create(db, newApplication("globex"))
	require.NoError(t, err)
	assert.NotZero(t, app.ID)
	assert.Equal(t, models.StatusApplied, app.Status)
	require.NotNil(t, app.Contact)
	assert.Equal(t, app.ContactID, app.Contact.ID)
	assert.Equal(t, "Recruiter globex", app.Contact.Name)

	_, err = Create(db, newApplication("globex"))
	require.ErrorIs(t, err, ErrApplicationInUse)

	assert.Equal(t, int64(1), countRows(t, db, &models.Application{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Contact{}), "duplicate must not leave a contact behind")
}

func TestExistByData(t *testing.T) {
	db := dbtest.Open(t)
	created, err := Create(db, newApplication("initech"))
	require.NoError(t, err)

	key := KeyOf(created)

	exists, err := ExistByData(db, key)
	require.NoError(t, err)
	assert.True(t, exists)

	key.LinkApplication = "https://elsewhere.example"
	exists, err = ExistByData(db, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAll(t *testing.T) {
	db := dbtest.Open(t)

	for i := 1; i <= 15; i++ {
		company := fmt.Sprintf("acme-%02d", i)
		if i%5 == 0 {
			company = fmt.Sprintf("globex-%02d", i)
		}

		_, err := Create(db, newApplication(company))
		require.NoError(t, err)
	}

	res, err := All(db, listing.Page{Page: 2, PageSize: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Count)
	require.Len(t, res.Rows, 5)
	assert.Equal(t, uint(11), res.Rows[0].ID)
	require.NotNil(t, res.Rows[0].Contact)

	res, err = All(db, listing.Page{Page: 1, PageSize: 10}, "globex")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Count)
}

func TestEdit(t *testing.T) {
	db := dbtest.Open(t)
	created, err := Create(db, newApplication("umbrella"))
	require.NoError(t, err)

	t.Run("updates application and contact", func(t *testing.T) {
		in := newApplication("umbrella")
		in.Status = models.StatusInterview
		in.Notes = "first call done"
		in.Contact.ID = created.ContactID
		in.Contact.Name = "New Recruiter"

		app, err := Edit(db, created.ID, in)
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Equal(t, models.StatusInterview, app.Status)
		assert.Equal(t, "first call done", app.Notes)
		assert.Equal(t, "New Recruiter", app.Contact.Name)
	})

	t.Run("missing application", func(t *testing.T) {
		in := newApplication("umbrella")
		in.Contact.ID = created.ContactID

		app, err := Edit(db, 999, in)
		require.NoError(t, err)
		assert.Nil(t, app)
	})

	t.Run("missing contact", func(t *testing.T) {
		in := newApplication("umbrella")
		in.Contact.ID = 999

		app, err := Edit(db, created.ID, in)
		require.NoError(t, err)
		assert.Nil(t, app)
	})

	t.Run("no contact", func(t *testing.T) {
		in := newApplication("umbrella")
		in.Contact = nil

		app, err := Edit(db, created.ID, in)
		require.NoError(t, err)
		assert.Nil(t, app)
	})
}

func TestDestroy(t *testing.T) {
	db := dbtest.Open(t)
	created, err := Create(db, newApplication("hooli"))
	require.NoError(t, err)

	deleted, err := Destroy(db, created.ID, created)
	require.NoError(t, err)
	assert.Same(t, created, deleted)

	_, err = Find(db, created.ID)
	require.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = Destroy(db, created.ID, created)
	require.ErrorIs(t, err, ErrApplicationNotFound)

	// natural key is free again once soft deleted
	exists, err := ExistByData(db, KeyOf(created))
	require.NoError(t, err)
	assert.False(t, exists)
}
