package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"locallibrary/internal/models"
	"locallibrary/internal/repositories"
)

// AuthorDetail is an author together with the books that reference it.
type AuthorDetail struct {
	Author models.Author
	Books  []models.Book
}

type AuthorService interface {
	List(ctx context.Context) ([]models.Author, error)
	Detail(ctx context.Context, id uuid.UUID) (*AuthorDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Author, error)
	Create(ctx context.Context, form *AuthorForm) (*models.Author, error)
	Update(ctx context.Context, id uuid.UUID, form *AuthorForm) (*models.Author, error)
	Delete(ctx context.Context, id uuid.UUID) (*AuthorDetail, error)
}

type authorService struct {
	db         *gorm.DB
	logger     *zap.Logger
	authorRepo repositories.AuthorRepository
	bookRepo   repositories.BookRepository
}

func NewAuthorService(
	db *gorm.DB,
	logger *zap.Logger,
	authorRepo repositories.AuthorRepository,
	bookRepo repositories.BookRepository,
) AuthorService {
	return &authorService{db: db, logger: logger, authorRepo: authorRepo, bookRepo: bookRepo}
}

func (s *authorService) List(ctx context.Context) ([]models.Author, error) {
	return s.authorRepo.List(s.db.WithContext(ctx))
}

// Detail loads the author and its books concurrently.
func (s *authorService) Detail(ctx context.Context, id uuid.UUID) (*AuthorDetail, error) {
	author, books, err := fetchPair(ctx,
		func(ctx context.Context) (*models.Author, error) {
			return s.authorRepo.GetByID(s.db.WithContext(ctx), id)
		},
		func(ctx context.Context) ([]models.Book, error) {
			return s.bookRepo.ListByAuthor(s.db.WithContext(ctx), id)
		},
	)
	if err != nil {
		return nil, mapNotFound(err, ErrAuthorNotFound)
	}
	return &AuthorDetail{Author: *author, Books: books}, nil
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, mapNotFound(err, ErrAuthorNotFound)
	}
	return author, nil
}

// Create validates form and stores a new author. A *ValidationError means the
// sanitized form should be shown again.
func (s *authorService) Create(ctx context.Context, form *AuthorForm) (*models.Author, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	author := form.author()
	if err := s.authorRepo.Create(s.db.WithContext(ctx), author); err != nil {
		s.logger.Error("create author failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("author created", zap.Stringer("id", author.ID), zap.String("name", author.Name()))
	return author, nil
}

// Update replaces every field of the author at id.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, form *AuthorForm) (*models.Author, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	author := form.author()
	if err := s.authorRepo.Update(s.db.WithContext(ctx), id, author); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		s.logger.Error("update author failed", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("author updated", zap.Stringer("id", id))
	return author, nil
}

// Delete removes the author unless books still reference it, in which case the
// author and those books are returned with ErrDeletionBlocked. Deleting an author
// that no longer exists succeeds.
func (s *authorService) Delete(ctx context.Context, id uuid.UUID) (*AuthorDetail, error) {
	var blocked *AuthorDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.authorRepo.DeleteUnreferenced(tx, id)
		if err != nil || deleted {
			return err
		}
		author, err := s.authorRepo.GetByID(tx, id)
		if err != nil {
			return err
		}
		books, err := s.bookRepo.ListByAuthor(tx, id)
		if err != nil {
			return err
		}
		blocked = &AuthorDetail{Author: *author, Books: books}
		return nil
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		s.logger.Error("delete author failed", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	case blocked != nil:
		s.logger.Warn("author delete blocked", zap.Stringer("id", id), zap.Int("books", len(blocked.Books)))
		return blocked, ErrDeletionBlocked
	}
	s.logger.Info("author deleted", zap.Stringer("id", id))
	return nil, nil
}
