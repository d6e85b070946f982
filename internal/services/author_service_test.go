package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorCreateRejectsBlankNames(t *testing.T) {
	lib, _ := newTestLibrary(t)

	form := &AuthorForm{FirstName: "   ", FamilyName: ""}
	_, err := lib.Authors.Create(context.Background(), form)
	requireInvalid(t, err, "first_name", "First name must be specified.")
	requireInvalid(t, err, "family_name", "Family name must be specified.")
	assert.Empty(t, form.FirstName, "form is sanitized in place")

	authors, err := lib.Authors.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestAuthorCreateRejectsNonAlphanumeric(t *testing.T) {
	lib, _ := newTestLibrary(t)
	_, err := lib.Authors.Create(context.Background(), &AuthorForm{FirstName: "Mary-Ann", FamilyName: "Evans"})
	requireInvalid(t, err, "first_name", "First name has non-alphanumeric characters.")
}

func TestAuthorDates(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	_, err := lib.Authors.Create(ctx, &AuthorForm{FirstName: "Jane", FamilyName: "Austen", DateOfBirth: "16/12/1775"})
	requireInvalid(t, err, "date_of_birth", "Invalid date of birth")

	_, err = lib.Authors.Create(ctx, &AuthorForm{FirstName: "Jane", FamilyName: "Austen", DateOfDeath: "soon"})
	requireInvalid(t, err, "date_of_death", "Invalid date of death")

	_, err = lib.Authors.Create(ctx, &AuthorForm{
		FirstName:   "Jane",
		FamilyName:  "Austen",
		DateOfBirth: "1817-07-18",
		DateOfDeath: "1775-12-16",
	})
	requireInvalid(t, err, "date_of_death", "Date of death must not precede date of birth.")

	a, err := lib.Authors.Create(ctx, &AuthorForm{
		FirstName:   "Jane",
		FamilyName:  "Austen",
		DateOfBirth: "1775-12-16",
		DateOfDeath: "1817-07-18",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sat, Dec 16, 1775 - Fri, Jul 18, 1817", a.Lifespan())
}

func TestAuthorWithoutDates(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	a, err := lib.Authors.Create(ctx, &AuthorForm{FirstName: "Jane", FamilyName: "Austen"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)

	detail, err := lib.Authors.Detail(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austen Jane", detail.Author.Name())
	assert.Equal(t, " - ", detail.Author.Lifespan())
	assert.Equal(t, "/catalog/author/"+a.ID.String(), detail.Author.URL())
	assert.Empty(t, detail.Books)
}

func TestAuthorDetailIdempotent(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Isaac", "Asimov")
	mustBook(t, lib, "Foundation", a)
	mustBook(t, lib, "I Robot", a)

	first, err := lib.Authors.Detail(ctx, a.ID)
	require.NoError(t, err)
	second, err := lib.Authors.Detail(ctx, a.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("detail changed between reads (-first +second):\n%s", diff)
	}
	require.Len(t, first.Books, 2)
	assert.Equal(t, "Foundation", first.Books[0].Title)
}

func TestAuthorDetailNotFound(t *testing.T) {
	lib, _ := newTestLibrary(t)
	_, err := lib.Authors.Detail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorListOrderedByFamilyName(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustAuthor(t, lib, "Patrick", "Rothfuss")
	mustAuthor(t, lib, "Ben", "Bova")
	mustAuthor(t, lib, "Isaac", "Asimov")

	authors, err := lib.Authors.List(context.Background())
	require.NoError(t, err)
	var names []string
	for _, a := range authors {
		names = append(names, a.FamilyName)
	}
	assert.Equal(t, []string{"Asimov", "Bova", "Rothfuss"}, names)
}

func TestAuthorUpdate(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Ben", "Bova")

	updated, err := lib.Authors.Update(ctx, a.ID, &AuthorForm{FirstName: "Benjamin", FamilyName: "Bova", DateOfBirth: "1932-11-08"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)

	got, err := lib.Authors.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Benjamin", got.FirstName)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, "1932-11-08", got.DateOfBirth.Format("2006-01-02"))

	// Omitted fields are cleared, not kept.
	_, err = lib.Authors.Update(ctx, a.ID, &AuthorForm{FirstName: "Benjamin", FamilyName: "Bova"})
	require.NoError(t, err)
	got, err = lib.Authors.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DateOfBirth)

	_, err = lib.Authors.Update(ctx, uuid.New(), &AuthorForm{FirstName: "No", FamilyName: "Body"})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = lib.Authors.Update(ctx, a.ID, &AuthorForm{FirstName: "", FamilyName: "Bova"})
	requireInvalid(t, err, "first_name", "First name must be specified.")
}

func TestAuthorDeleteBlockedByBook(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Patrick", "Rothfuss")
	b := mustBook(t, lib, "The Name of the Wind", a)

	blocked, err := lib.Authors.Delete(ctx, a.ID)
	require.ErrorIs(t, err, ErrDeletionBlocked)
	require.NotNil(t, blocked)
	assert.Equal(t, a.ID, blocked.Author.ID)
	require.Len(t, blocked.Books, 1)
	assert.Equal(t, b.ID, blocked.Books[0].ID)

	_, err = lib.Authors.Get(ctx, a.ID)
	require.NoError(t, err, "blocked author must still exist")
}

func TestAuthorDelete(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a := mustAuthor(t, lib, "Jim", "Jones")

	blocked, err := lib.Authors.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, blocked)

	_, err = lib.Authors.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	// Deleting again is a no-op.
	blocked, err = lib.Authors.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, blocked)
}
