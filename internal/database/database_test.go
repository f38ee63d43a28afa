package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "bookscan.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, db.Ping())
	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.EnrichmentRun{}))
}

func TestMetadataUpdater(t *testing.T) {
	db := setupTestDB(t)
	updater := NewMetadataUpdater(db)

	var _ metadata.BookUpdater = updater
	var _ metadata.ProgressReporter = db.Progress

	book, _, err := db.Books.Add(&entities.Book{ISBN: "9780134685991", Title: "Kept"})
	require.NoError(t, err)

	t.Run("empty update is a no-op", func(t *testing.T) {
		require.NoError(t, updater.UpdateBookMetadata(book.ID, metadata.BookUpdateFields{}))
		got, err := updater.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Nil(t, got.EnrichedAt)
	})

	t.Run("sets only provided fields", func(t *testing.T) {
		publisher := "Addison-Wesley"
		year := 2018
		pages := 416
		require.NoError(t, updater.UpdateBookMetadata(book.ID, metadata.BookUpdateFields{
			Publisher:       &publisher,
			PublicationYear: &year,
			PageCount:       &pages,
		}))

		got, err := updater.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kept", got.Title)
		assert.Equal(t, publisher, got.Publisher)
		assert.Equal(t, year, got.PublicationYear)
		assert.Equal(t, pages, got.PageCount)
		assert.NotNil(t, got.EnrichedAt)
	})

	missing, err := updater.GetBooksMissingMetadata()
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, book.ID, missing[0].ID)
}
