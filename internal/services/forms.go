package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"locallibrary/internal/models"
	"locallibrary/internal/validation"
)

// Forms are the raw, unvalidated drafts bound from a submission. Validating a form
// sanitizes it in place; only a form that validated cleanly is turned into a model.

const (
	nameMaxLength  = 100
	formDateLayout = "2006-01-02"
)

type AuthorForm struct {
	FirstName   string `form:"first_name"`
	FamilyName  string `form:"family_name"`
	DateOfBirth string `form:"date_of_birth"`
	DateOfDeath string `form:"date_of_death"`
}

func (f *AuthorForm) Validate() validation.Errors {
	v := validation.New()
	v.Field("first_name", &f.FirstName).
		Trim().
		Required("First name must be specified.").
		MaxLength(nameMaxLength, "First name must not exceed 100 characters.").
		Alphanumeric("First name has non-alphanumeric characters.").
		Escape()
	v.Field("family_name", &f.FamilyName).
		Trim().
		Required("Family name must be specified.").
		MaxLength(nameMaxLength, "Family name must not exceed 100 characters.").
		Alphanumeric("Family name has non-alphanumeric characters.").
		Escape()
	v.Field("date_of_birth", &f.DateOfBirth).Trim().Optional().ISO8601("Invalid date of birth")
	v.Field("date_of_death", &f.DateOfDeath).Trim().Optional().ISO8601("Invalid date of death")

	born, bornErr := optionalDate(f.DateOfBirth)
	died, diedErr := optionalDate(f.DateOfDeath)
	if bornErr == nil && diedErr == nil && born != nil && died != nil {
		v.Check(!died.Before(*born), "date_of_death", "Date of death must not precede date of birth.")
	}
	return v.Errors()
}

// author builds the record from a form that passed Validate.
func (f *AuthorForm) author() *models.Author {
	born, _ := optionalDate(f.DateOfBirth)
	died, _ := optionalDate(f.DateOfDeath)
	return &models.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: born,
		DateOfDeath: died,
	}
}

// NewAuthorForm prefills a form from a stored author.
func NewAuthorForm(a *models.Author) AuthorForm {
	return AuthorForm{
		FirstName:   html.UnescapeString(a.FirstName),
		FamilyName:  html.UnescapeString(a.FamilyName),
		DateOfBirth: formatOptionalDate(a.DateOfBirth),
		DateOfDeath: formatOptionalDate(a.DateOfDeath),
	}
}

type GenreForm struct {
	Name string `form:"name"`
}

func (f *GenreForm) Validate() validation.Errors {
	v := validation.New()
	v.Field("name", &f.Name).
		Trim().
		Required("Genre name required").
		MaxLength(nameMaxLength, "Genre name must not exceed 100 characters.").
		Escape()
	return v.Errors()
}

func (f *GenreForm) genre() *models.Genre {
	return &models.Genre{Name: f.Name}
}

func NewGenreForm(g *models.Genre) GenreForm {
	return GenreForm{Name: html.UnescapeString(g.Name)}
}

type BookForm struct {
	Title   string   `form:"title"`
	Author  string   `form:"author"`
	Summary string   `form:"summary"`
	ISBN    string   `form:"isbn"`
	Genre   []string `form:"genre"`
}

func (f *BookForm) Validate() validation.Errors {
	v := validation.New()
	v.Field("title", &f.Title).Trim().Required("Title must not be empty.").Escape()
	v.Field("author", &f.Author).
		Trim().
		Required("Author must not be empty.").
		UUID("Author selection is invalid.").
		Escape()
	v.Field("summary", &f.Summary).Trim().Required("Summary must not be empty.").Escape()
	v.Field("isbn", &f.ISBN).Trim().Required("ISBN must not be empty.").Escape()

	f.Genre = normalizeRefs(f.Genre)
	for i := range f.Genre {
		v.Field("genre", &f.Genre[i]).UUID("Genre selection is invalid.").Escape()
	}
	return v.Errors()
}

// GenreIDs parses the normalized genre selection, skipping anything malformed.
func (f *BookForm) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(f.Genre))
	for _, raw := range f.Genre {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *BookForm) authorID() (uuid.UUID, error) {
	id, err := uuid.Parse(f.Author)
	if err != nil {
		return uuid.Nil, fmt.Errorf("author reference: %w", err)
	}
	return id, nil
}

// NewBookForm prefills a form from a stored book with its genres loaded. Stored
// text was escaped on the way in, so it is unescaped here to round-trip through
// Validate unchanged.
func NewBookForm(b *models.Book) BookForm {
	genres := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		genres = append(genres, g.ID.String())
	}
	return BookForm{
		Title:   html.UnescapeString(b.Title),
		Author:  b.AuthorID.String(),
		Summary: html.UnescapeString(b.Summary),
		ISBN:    html.UnescapeString(b.ISBN),
		Genre:   genres,
	}
}

type BookInstanceForm struct {
	Book       string `form:"book"`
	Imprint    string `form:"imprint"`
	CopyStatus string `form:"copyStatus"`
	DueBack    string `form:"dueBack"`
}

func (f *BookInstanceForm) Validate() validation.Errors {
	v := validation.New()
	v.Field("book", &f.Book).
		Trim().
		Required("Book must be specified").
		UUID("Book selection is invalid.").
		Escape()
	v.Field("imprint", &f.Imprint).Trim().Required("Imprint must be specified").Escape()
	v.Field("copyStatus", &f.CopyStatus).
		Trim().
		Optional().
		OneOf("Invalid copy status", copyStatusValues()...).
		Escape()
	v.Field("dueBack", &f.DueBack).Trim().Optional().ISO8601("Invalid date")
	return v.Errors()
}

// bookInstance builds the record; omitted status and due date take their defaults.
func (f *BookInstanceForm) bookInstance() (*models.BookInstance, error) {
	bookID, err := uuid.Parse(f.Book)
	if err != nil {
		return nil, fmt.Errorf("book reference: %w", err)
	}
	bi := &models.BookInstance{
		BookID:     bookID,
		Imprint:    f.Imprint,
		CopyStatus: models.CopyStatus(f.CopyStatus),
	}
	if bi.CopyStatus == "" {
		bi.CopyStatus = models.CopyStatusMaintenance
	}
	if due, _ := optionalDate(f.DueBack); due != nil {
		bi.DueBack = *due
	} else {
		bi.DueBack = time.Now().UTC()
	}
	return bi, nil
}

func NewBookInstanceForm(bi *models.BookInstance) BookInstanceForm {
	return BookInstanceForm{
		Book:       bi.BookID.String(),
		Imprint:    html.UnescapeString(bi.Imprint),
		CopyStatus: string(bi.CopyStatus),
		DueBack:    bi.DueBack.UTC().Format(formDateLayout),
	}
}

func copyStatusValues() []string {
	values := make([]string, 0, len(models.CopyStatuses))
	for _, s := range models.CopyStatuses {
		values = append(values, string(s))
	}
	return values
}

// normalizeRefs trims a multi-valued reference field, dropping blanks and repeats.
func normalizeRefs(raw []string) []string {
	refs := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		refs = append(refs, r)
	}
	return refs
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := validation.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(formDateLayout)
}
