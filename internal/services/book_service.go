package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"locallibrary/internal/models"
	"locallibrary/internal/repositories"
	"locallibrary/internal/validation"
)

// BookDetail is a book with author and genres loaded, plus its copies.
type BookDetail struct {
	Book      models.Book
	Instances []models.BookInstance
}

// GenreOption pairs a genre with whether the form has it selected.
type GenreOption struct {
	Genre   models.Genre
	Checked bool
}

// BookFormOptions are the reference pickers the book form needs.
type BookFormOptions struct {
	Authors []models.Author
	Genres  []GenreOption
}

type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Detail(ctx context.Context, id uuid.UUID) (*BookDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Book, error)
	FormOptions(ctx context.Context, form *BookForm) (*BookFormOptions, error)
	Create(ctx context.Context, form *BookForm) (*models.Book, error)
	Update(ctx context.Context, id uuid.UUID, form *BookForm) (*models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) (*BookDetail, error)
}

type bookService struct {
	db               *gorm.DB
	logger           *zap.Logger
	bookRepo         repositories.BookRepository
	authorRepo       repositories.AuthorRepository
	genreRepo        repositories.GenreRepository
	bookInstanceRepo repositories.BookInstanceRepository
}

func NewBookService(
	db *gorm.DB,
	logger *zap.Logger,
	bookRepo repositories.BookRepository,
	authorRepo repositories.AuthorRepository,
	genreRepo repositories.GenreRepository,
	bookInstanceRepo repositories.BookInstanceRepository,
) BookService {
	return &bookService{
		db:               db,
		logger:           logger,
		bookRepo:         bookRepo,
		authorRepo:       authorRepo,
		genreRepo:        genreRepo,
		bookInstanceRepo: bookInstanceRepo,
	}
}

// List returns every book with its author, ordered by title.
func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	return s.bookRepo.List(s.db.WithContext(ctx))
}

func (s *bookService) Detail(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	book, instances, err := fetchPair(ctx,
		func(ctx context.Context) (*models.Book, error) {
			return s.bookRepo.GetByID(s.db.WithContext(ctx), id)
		},
		func(ctx context.Context) ([]models.BookInstance, error) {
			return s.bookInstanceRepo.ListByBook(s.db.WithContext(ctx), id)
		},
	)
	if err != nil {
		return nil, mapNotFound(err, ErrBookNotFound)
	}
	return &BookDetail{Book: *book, Instances: instances}, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, mapNotFound(err, ErrBookNotFound)
	}
	return book, nil
}

// FormOptions loads authors and genres concurrently, checking the genres selected
// in form. A nil form checks nothing.
func (s *bookService) FormOptions(ctx context.Context, form *BookForm) (*BookFormOptions, error) {
	authors, genres, err := fetchPair(ctx,
		func(ctx context.Context) ([]models.Author, error) {
			return s.authorRepo.List(s.db.WithContext(ctx))
		},
		func(ctx context.Context) ([]models.Genre, error) {
			return s.genreRepo.List(s.db.WithContext(ctx))
		},
	)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool)
	if form != nil {
		for _, g := range form.Genre {
			selected[g] = true
		}
	}
	options := make([]GenreOption, 0, len(genres))
	for _, g := range genres {
		options = append(options, GenreOption{Genre: g, Checked: selected[g.ID.String()]})
	}
	return &BookFormOptions{Authors: authors, Genres: options}, nil
}

func (s *bookService) Create(ctx context.Context, form *BookForm) (*models.Book, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}

	var book *models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		book, err = s.buildBook(tx, form)
		if err != nil {
			return err
		}
		return s.bookRepo.Create(tx, book)
	})
	if err != nil {
		return nil, s.writeError("create book failed", uuid.Nil, err)
	}
	s.logger.Info("book created", zap.Stringer("id", book.ID), zap.String("title", book.Title), zap.Int("genres", len(book.Genres)))
	return book, nil
}

// Update replaces every field of the book at id, including its genre set.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, form *BookForm) (*models.Book, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}

	var book *models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		book, err = s.buildBook(tx, form)
		if err != nil {
			return err
		}
		return s.bookRepo.Update(tx, id, book)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, s.writeError("update book failed", id, err)
	}
	s.logger.Info("book updated", zap.Stringer("id", id), zap.String("title", book.Title))
	return book, nil
}

// Delete removes the book unless copies of it still exist.
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	var blocked *BookDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.bookRepo.DeleteUnreferenced(tx, id)
		if err != nil || deleted {
			return err
		}
		book, err := s.bookRepo.GetByID(tx, id)
		if err != nil {
			return err
		}
		instances, err := s.bookInstanceRepo.ListByBook(tx, id)
		if err != nil {
			return err
		}
		blocked = &BookDetail{Book: *book, Instances: instances}
		return nil
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		s.logger.Error("delete book failed", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	case blocked != nil:
		s.logger.Warn("book delete blocked", zap.Stringer("id", id), zap.Int("copies", len(blocked.Instances)))
		return blocked, ErrDeletionBlocked
	}
	s.logger.Info("book deleted", zap.Stringer("id", id))
	return nil, nil
}

// buildBook turns a validated form into a record whose genres are the stored
// genres matching the selection. Unknown genre ids are dropped.
func (s *bookService) buildBook(tx *gorm.DB, form *BookForm) (*models.Book, error) {
	authorID, err := form.authorID()
	if err != nil {
		return nil, err
	}
	genres, err := s.genreRepo.ListByIDs(tx, form.GenreIDs())
	if err != nil {
		return nil, err
	}
	return &models.Book{
		Title:    form.Title,
		AuthorID: authorID,
		Summary:  form.Summary,
		ISBN:     form.ISBN,
		Genres:   genres,
	}, nil
}

// writeError maps a store error on create/update. A dangling author reference is
// reported against the author field instead of failing the request.
func (s *bookService) writeError(msg string, id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return invalid(validation.Errors{{Field: "author", Message: "Author selection is invalid."}})
	}
	s.logger.Error(msg, zap.Stringer("id", id), zap.Error(err))
	return err
}
