package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreCreateValidation(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	_, err := lib.Genres.Create(ctx, &GenreForm{Name: "  "})
	requireInvalid(t, err, "name", "Genre name required")

	_, err = lib.Genres.Create(ctx, &GenreForm{Name: strings.Repeat("g", 101)})
	requireInvalid(t, err, "name", "Genre name must not exceed 100 characters.")
}

func TestGenreCreateSameNameTwice(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	first, err := lib.Genres.Create(ctx, &GenreForm{Name: "Fantasy"})
	require.NoError(t, err)
	second, err := lib.Genres.Create(ctx, &GenreForm{Name: "  Fantasy "})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.URL(), second.URL())

	genres, err := lib.Genres.List(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)

	// Matching is exact, so a different case is a different genre.
	other, err := lib.Genres.Create(ctx, &GenreForm{Name: "fantasy"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGenreNameIsEscaped(t *testing.T) {
	lib, _ := newTestLibrary(t)
	g, err := lib.Genres.Create(context.Background(), &GenreForm{Name: "<b>Sci-Fi</b>"})
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;Sci-Fi&lt;&#x2F;b&gt;", g.Name)
}

func TestGenreDetailListsBooks(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Ben", "Bova")
	sf := mustGenre(t, lib, "Science Fiction")
	poetry := mustGenre(t, lib, "French Poetry")
	mustBook(t, lib, "Death Wave", a, sf)
	mustBook(t, lib, "Apes and Angels", a, sf, poetry)

	detail, err := lib.Genres.Detail(ctx, sf.ID)
	require.NoError(t, err)
	require.Len(t, detail.Books, 2)
	assert.Equal(t, "Apes and Angels", detail.Books[0].Title)
	assert.Equal(t, "Death Wave", detail.Books[1].Title)

	detail, err = lib.Genres.Detail(ctx, poetry.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Books, 1)

	_, err = lib.Genres.Detail(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestGenreUpdate(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	fantasy := mustGenre(t, lib, "Fantasy")
	poetry := mustGenre(t, lib, "Poetry")

	updated, err := lib.Genres.Update(ctx, poetry.ID, &GenreForm{Name: "French Poetry"})
	require.NoError(t, err)
	assert.Equal(t, poetry.ID, updated.ID)

	got, err := lib.Genres.Get(ctx, poetry.ID)
	require.NoError(t, err)
	assert.Equal(t, "French Poetry", got.Name)

	_, err = lib.Genres.Update(ctx, poetry.ID, &GenreForm{Name: fantasy.Name})
	requireInvalid(t, err, "name", "Genre name already exists.")

	_, err = lib.Genres.Update(ctx, uuid.New(), &GenreForm{Name: "Horror"})
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestGenreDeleteBlockedByBook(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Patrick", "Rothfuss")
	fantasy := mustGenre(t, lib, "Fantasy")
	mustBook(t, lib, "The Name of the Wind", a, fantasy)

	blocked, err := lib.Genres.Delete(ctx, fantasy.ID)
	require.ErrorIs(t, err, ErrDeletionBlocked)
	require.Len(t, blocked.Books, 1)
	assert.Equal(t, "Fantasy", blocked.Genre.Name)

	_, err = lib.Genres.Get(ctx, fantasy.ID)
	require.NoError(t, err)
}

func TestGenreDelete(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	g := mustGenre(t, lib, "Horror")

	blocked, err := lib.Genres.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, blocked)

	_, err = lib.Genres.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	blocked, err = lib.Genres.Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, blocked)
}
