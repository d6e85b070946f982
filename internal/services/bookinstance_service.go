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

type BookInstanceService interface {
	List(ctx context.Context, status models.CopyStatus) ([]models.BookInstance, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	BookOptions(ctx context.Context) ([]models.Book, error)
	Create(ctx context.Context, form *BookInstanceForm) (*models.BookInstance, error)
	Update(ctx context.Context, id uuid.UUID, form *BookInstanceForm) (*models.BookInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookInstanceService struct {
	db               *gorm.DB
	logger           *zap.Logger
	bookInstanceRepo repositories.BookInstanceRepository
	bookRepo         repositories.BookRepository
}

func NewBookInstanceService(
	db *gorm.DB,
	logger *zap.Logger,
	bookInstanceRepo repositories.BookInstanceRepository,
	bookRepo repositories.BookRepository,
) BookInstanceService {
	return &bookInstanceService{db: db, logger: logger, bookInstanceRepo: bookInstanceRepo, bookRepo: bookRepo}
}

// List returns copies with their book, optionally only those in status. An
// unknown status is ignored.
func (s *bookInstanceService) List(ctx context.Context, status models.CopyStatus) ([]models.BookInstance, error) {
	if !models.IsValidCopyStatus(string(status)) {
		status = ""
	}
	return s.bookInstanceRepo.List(s.db.WithContext(ctx), status)
}

// Get loads a copy with its book. Copies have no dependents, so this backs the
// detail, update and delete views alike.
func (s *bookInstanceService) Get(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	bi, err := s.bookInstanceRepo.GetByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, mapNotFound(err, ErrBookInstanceNotFound)
	}
	return bi, nil
}

// BookOptions lists the books a copy can belong to.
func (s *bookInstanceService) BookOptions(ctx context.Context) ([]models.Book, error) {
	return s.bookRepo.List(s.db.WithContext(ctx))
}

func (s *bookInstanceService) Create(ctx context.Context, form *BookInstanceForm) (*models.BookInstance, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	bi, err := form.bookInstance()
	if err != nil {
		return nil, err
	}
	if err := s.bookInstanceRepo.Create(s.db.WithContext(ctx), bi); err != nil {
		return nil, s.writeError("create book copy failed", uuid.Nil, err)
	}
	s.logger.Info("book copy created",
		zap.Stringer("id", bi.ID),
		zap.Stringer("book_id", bi.BookID),
		zap.String("status", string(bi.CopyStatus)),
	)
	return bi, nil
}

// Update replaces every field of the copy at id; omitted status and due date are
// reset to their defaults.
func (s *bookInstanceService) Update(ctx context.Context, id uuid.UUID, form *BookInstanceForm) (*models.BookInstance, error) {
	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(errs)
	}
	bi, err := form.bookInstance()
	if err != nil {
		return nil, err
	}
	if err := s.bookInstanceRepo.Update(s.db.WithContext(ctx), id, bi); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookInstanceNotFound
		}
		return nil, s.writeError("update book copy failed", id, err)
	}
	s.logger.Info("book copy updated", zap.Stringer("id", id), zap.String("status", string(bi.CopyStatus)))
	return bi, nil
}

// Delete always succeeds for a missing copy; nothing references copies.
func (s *bookInstanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookInstanceRepo.Delete(s.db.WithContext(ctx), id); err != nil {
		s.logger.Error("delete book copy failed", zap.Stringer("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("book copy deleted", zap.Stringer("id", id))
	return nil
}

func (s *bookInstanceService) writeError(msg string, id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return invalid(validation.Errors{{Field: "book", Message: "Book selection is invalid."}})
	}
	s.logger.Error(msg, zap.Stringer("id", id), zap.Error(err))
	return err
}
