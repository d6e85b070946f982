package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"locallibrary/internal/database/dbtest"
	"locallibrary/internal/models"
)

type fixture struct {
	db        *gorm.DB
	authors   AuthorRepository
	genres    GenreRepository
	books     BookRepository
	instances BookInstanceRepository
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	return &fixture{
		db:        db,
		authors:   NewAuthorRepository(db),
		genres:    NewGenreRepository(db),
		books:     NewBookRepository(db),
		instances: NewBookInstanceRepository(db),
	}
}

func (f *fixture) author(t *testing.T, family string) *models.Author {
	a := &models.Author{FirstName: "A", FamilyName: family}
	require.NoError(t, f.authors.Create(nil, a))
	return a
}

func (f *fixture) book(t *testing.T, title string, author *models.Author, genres ...models.Genre) *models.Book {
	b := &models.Book{Title: title, AuthorID: author.ID, Summary: "s", ISBN: "i", Genres: genres}
	require.NoError(t, f.books.Create(nil, b))
	return b
}

func TestCreateAssignsIDs(t *testing.T) {
	f := newFixture(t)
	a := f.author(t, "Austen")
	assert.NotEqual(t, uuid.Nil, a.ID)

	got, err := f.authors.GetByID(nil, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austen", got.FamilyName)

	_, err = f.authors.GetByID(nil, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookCreateDoesNotUpsertGenres(t *testing.T) {
	f := newFixture(t)
	g := &models.Genre{Name: "Fantasy"}
	require.NoError(t, f.genres.Create(nil, g))

	stale := *g
	stale.Name = "Renamed in memory"
	b := f.book(t, "The Name of the Wind", f.author(t, "Rothfuss"), stale)

	got, err := f.books.GetByID(nil, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Fantasy", got.Genres[0].Name)
	assert.Equal(t, "Rothfuss", got.Author.FamilyName)
}

func TestListByIDs(t *testing.T) {
	f := newFixture(t)
	poetry := &models.Genre{Name: "Poetry"}
	drama := &models.Genre{Name: "Drama"}
	require.NoError(t, f.genres.Create(nil, poetry))
	require.NoError(t, f.genres.Create(nil, drama))

	genres, err := f.genres.ListByIDs(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, genres)

	genres, err = f.genres.ListByIDs(nil, []uuid.UUID{poetry.ID, drama.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Drama", genres[0].Name)
}

func TestAuthorDeleteUnreferenced(t *testing.T) {
	f := newFixture(t)
	a := f.author(t, "Bova")
	b := f.book(t, "Death Wave", a)

	deleted, err := f.authors.DeleteUnreferenced(nil, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	ok, err := f.books.DeleteUnreferenced(nil, b.ID)
	require.NoError(t, err)
	require.True(t, ok)

	deleted, err = f.authors.DeleteUnreferenced(nil, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.authors.DeleteUnreferenced(nil, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "nothing left to delete")
}

func TestGenreDeleteUnreferenced(t *testing.T) {
	f := newFixture(t)
	g := &models.Genre{Name: "Fantasy"}
	require.NoError(t, f.genres.Create(nil, g))
	b := f.book(t, "The Name of the Wind", f.author(t, "Rothfuss"), *g)

	deleted, err := f.genres.DeleteUnreferenced(nil, g.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	books, err := f.books.ListByGenre(nil, g.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, b.ID, books[0].ID)

	b.Genres = nil
	require.NoError(t, f.books.Update(nil, b.ID, b))

	deleted, err = f.genres.DeleteUnreferenced(nil, g.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestBookDeleteUnreferenced(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "Foundation", f.author(t, "Asimov"))
	bi := &models.BookInstance{BookID: b.ID, Imprint: "Gnome Press"}
	require.NoError(t, f.instances.Create(nil, bi))
	assert.Equal(t, models.CopyStatusMaintenance, bi.CopyStatus)

	deleted, err := f.books.DeleteUnreferenced(nil, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, f.instances.Delete(nil, bi.ID))
	deleted, err = f.books.DeleteUnreferenced(nil, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUpdateMissingRow(t *testing.T) {
	f := newFixture(t)
	err := f.authors.Update(nil, uuid.New(), &models.Author{FirstName: "A", FamilyName: "B"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = f.genres.Update(nil, uuid.New(), &models.Genre{Name: "G"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookInstanceListAndCount(t *testing.T) {
	f := newFixture(t)
	a := f.author(t, "Bova")
	b := f.book(t, "Death Wave", a)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	for _, status := range []models.CopyStatus{models.CopyStatusAvailable, models.CopyStatusLoaned, models.CopyStatusAvailable} {
		require.NoError(t, f.instances.Create(nil, &models.BookInstance{BookID: b.ID, Imprint: "Tor", CopyStatus: status, DueBack: due}))
	}

	n, err := f.instances.Count(nil, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	n, err = f.instances.Count(nil, models.CopyStatusAvailable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	loaned, err := f.instances.List(nil, models.CopyStatusLoaned)
	require.NoError(t, err)
	require.Len(t, loaned, 1)
	assert.Equal(t, "Death Wave", loaned[0].Book.Title)

	byBook, err := f.instances.ListByBook(nil, b.ID)
	require.NoError(t, err)
	assert.Len(t, byBook, 3)
}
