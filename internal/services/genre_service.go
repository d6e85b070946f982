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

type GenreDetail struct {
	Genre models.Genre
	Books []models.Book
}

type GenreService interface {
	List(ctx context.Context) ([]models.Genre, error)
	Detail(ctx context.Context, id uuid.UUID) (*GenreDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Genre, error)
	Create(ctx context.Context, form *GenreForm) (*models.Genre, error)
	Update(ctx context.Context, id uuid.UUID, form *GenreForm) (*models.Genre, error)
	Delete(ctx context.Context, id uuid.UUID) (*GenreDetail, error)
}

type genreService struct {
	db        *gorm.DB
	logger    *zap.Logger
	genreRepo repositories.GenreRepository
	bookRepo  repositories.BookRepository
}

func NewGenreService(
	db *gorm.DB,
	logger *zap.Logger,
	genreRepo repositories.GenreRepository,
	bookRepo repositories.BookRepository,
) GenreService {
	return &genreService{db: db, logger: logger, genreRepo: genreRepo, bookRepo: bookRepo}
}

func (s *genreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.genreRepo.List(s.db.WithContext(ctx))
}

func (s *genreService) Detail(ctx context.Context, id uuid.UUID) (*GenreDetail, error) {
	genre, books, err := fetchPair(ctx,
		func(ctx context.Context) (*models.Genre, error) {
			return s.genreRepo.GetByID(s.db.WithContext(ctx), id)
		},
		func(ctx context.Context) ([]models.Book, error) {
			return s.bookRepo.ListByGenre(s.db.WithContext(ctx), id)
		},
	)
	if err != nil {
		return nil, mapNotFound(err, ErrGenreNotFound)
	}
	return &GenreDetail{Genre: *genre, Books: books}, nil
}

func (s *genreService) Get(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	genre, err := s.genreRepo.GetByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, mapNotFound(err, ErrGenreNotFound)
	}
	return genre, nil
}

// Create stores a new genre, or returns the genre that already has exactly this
// name. A concurrent insert of the same name resolves to the winner's record.
func (s *genreService) Create(ctx context.Context, form *GenreForm) (*models.Genre, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	db := s.db.WithContext(ctx)

	existing, err := s.genreRepo.GetByName(db, form.Name)
	if err == nil {
		s.logger.Debug("genre exists, reusing", zap.Stringer("id", existing.ID), zap.String("name", existing.Name))
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := form.genre()
	if err := s.genreRepo.Create(db, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("genre insert raced a duplicate", zap.String("name", genre.Name))
			return s.genreRepo.GetByName(db, genre.Name)
		}
		s.logger.Error("create genre failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("genre created", zap.Stringer("id", genre.ID), zap.String("name", genre.Name))
	return genre, nil
}

// Update renames the genre at id. Taking a name another genre already uses is a
// validation failure.
func (s *genreService) Update(ctx context.Context, id uuid.UUID, form *GenreForm) (*models.Genre, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	genre := form.genre()
	if err := s.genreRepo.Update(s.db.WithContext(ctx), id, genre); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrGenreNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, invalid(validation.Errors{{Field: "name", Message: "Genre name already exists."}})
		}
		s.logger.Error("update genre failed", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("genre updated", zap.Stringer("id", id), zap.String("name", genre.Name))
	return genre, nil
}

// Delete removes the genre unless a book is still filed under it.
func (s *genreService) Delete(ctx context.Context, id uuid.UUID) (*GenreDetail, error) {
	var blocked *GenreDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.genreRepo.DeleteUnreferenced(tx, id)
		if err != nil || deleted {
			return err
		}
		genre, err := s.genreRepo.GetByID(tx, id)
		if err != nil {
			return err
		}
		books, err := s.bookRepo.ListByGenre(tx, id)
		if err != nil {
			return err
		}
		blocked = &GenreDetail{Genre: *genre, Books: books}
		return nil
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		s.logger.Error("delete genre failed", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	case blocked != nil:
		s.logger.Warn("genre delete blocked", zap.Stringer("id", id), zap.Int("books", len(blocked.Books)))
		return blocked, ErrDeletionBlocked
	}
	s.logger.Info("genre deleted", zap.Stringer("id", id))
	return nil, nil
}
