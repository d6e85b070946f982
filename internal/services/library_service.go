package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"locallibrary/internal/models"
	"locallibrary/internal/repositories"
	"locallibrary/internal/validation"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrNotFound is wrapped by every per-entity not-found error so callers can
	// branch on it once.
	ErrNotFound = errors.New("not found")

	ErrAuthorNotFound       = fmt.Errorf("author %w", ErrNotFound)
	ErrGenreNotFound        = fmt.Errorf("genre %w", ErrNotFound)
	ErrBookNotFound         = fmt.Errorf("book %w", ErrNotFound)
	ErrBookInstanceNotFound = fmt.Errorf("book copy %w", ErrNotFound)

	// ErrDeletionBlocked is returned together with the dependents that still
	// reference the record.
	ErrDeletionBlocked = errors.New("record still referenced, not deleted")
)

// ValidationError carries every field failure of a rejected submission. The
// submitted form has already been sanitized in place when this is returned.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field error(s)", len(e.Errors))
}

func invalid(errs validation.Errors) error {
	return &ValidationError{Errors: errs}
}

// ─── Library ──────────────────────────────────────────────────────────────────

// Library bundles the per-entity workflows so the HTTP layer needs one value.
type Library struct {
	Catalog       CatalogService
	Authors       AuthorService
	Genres        GenreService
	Books         BookService
	BookInstances BookInstanceService
}

// NewLibrary wires up all repositories and returns every service over db.
func NewLibrary(db *gorm.DB, logger *zap.Logger) *Library {
	authorRepo := repositories.NewAuthorRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	bookInstanceRepo := repositories.NewBookInstanceRepository(db)

	return &Library{
		Catalog:       NewCatalogService(db, authorRepo, genreRepo, bookRepo, bookInstanceRepo),
		Authors:       NewAuthorService(db, logger, authorRepo, bookRepo),
		Genres:        NewGenreService(db, logger, genreRepo, bookRepo),
		Books:         NewBookService(db, logger, bookRepo, authorRepo, genreRepo, bookInstanceRepo),
		BookInstances: NewBookInstanceService(db, logger, bookInstanceRepo, bookRepo),
	}
}

// ─── Catalog Index ────────────────────────────────────────────────────────────

// CatalogCounts backs the home page.
type CatalogCounts struct {
	Books                  int64
	BookInstances          int64
	BookInstancesAvailable int64
	Authors                int64
	Genres                 int64
}

type CatalogService interface {
	Counts(ctx context.Context) (*CatalogCounts, error)
}

type catalogService struct {
	db               *gorm.DB
	authorRepo       repositories.AuthorRepository
	genreRepo        repositories.GenreRepository
	bookRepo         repositories.BookRepository
	bookInstanceRepo repositories.BookInstanceRepository
}

func NewCatalogService(
	db *gorm.DB,
	authorRepo repositories.AuthorRepository,
	genreRepo repositories.GenreRepository,
	bookRepo repositories.BookRepository,
	bookInstanceRepo repositories.BookInstanceRepository,
) CatalogService {
	return &catalogService{
		db:               db,
		authorRepo:       authorRepo,
		genreRepo:        genreRepo,
		bookRepo:         bookRepo,
		bookInstanceRepo: bookInstanceRepo,
	}
}

// Counts issues the five counts concurrently. On error the counts gathered so far
// are still returned alongside it.
func (s *catalogService) Counts(ctx context.Context) (*CatalogCounts, error) {
	var counts CatalogCounts
	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }

	g.Go(func() (err error) {
		counts.Books, err = s.bookRepo.Count(db())
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = s.bookInstanceRepo.Count(db(), "")
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstancesAvailable, err = s.bookInstanceRepo.Count(db(), models.CopyStatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = s.authorRepo.Count(db())
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = s.genreRepo.Count(db())
		return err
	})

	err := g.Wait()
	return &counts, err
}

// ─── Internal Helpers ─────────────────────────────────────────────────────────

// fetchPair runs two independent reads concurrently and returns once both are done.
// If either fails the shared context is cancelled and the first error is returned.
func fetchPair[A, B any](
	ctx context.Context,
	first func(ctx context.Context) (A, error),
	second func(ctx context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = first(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = second(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)
		return zeroA, zeroB, err
	}
	return a, b, nil
}

// mapNotFound turns gorm's missing-row error into the entity's sentinel.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
