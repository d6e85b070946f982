package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Counts(ctx context.Context) (*services.CatalogCounts, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(*services.CatalogCounts)
	return counts, args.Error(1)
}

type mockAuthors struct {
	mock.Mock
}

func (m *mockAuthors) List(ctx context.Context) ([]models.Author, error) {
	args := m.Called(ctx)
	authors, _ := args.Get(0).([]models.Author)
	return authors, args.Error(1)
}

func (m *mockAuthors) Detail(ctx context.Context, id uuid.UUID) (*services.AuthorDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*services.AuthorDetail)
	return detail, args.Error(1)
}

func (m *mockAuthors) Get(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	args := m.Called(ctx, id)
	author, _ := args.Get(0).(*models.Author)
	return author, args.Error(1)
}

func (m *mockAuthors) Create(ctx context.Context, form *services.AuthorForm) (*models.Author, error) {
	args := m.Called(ctx, form)
	author, _ := args.Get(0).(*models.Author)
	return author, args.Error(1)
}

func (m *mockAuthors) Update(ctx context.Context, id uuid.UUID, form *services.AuthorForm) (*models.Author, error) {
	args := m.Called(ctx, id, form)
	author, _ := args.Get(0).(*models.Author)
	return author, args.Error(1)
}

func (m *mockAuthors) Delete(ctx context.Context, id uuid.UUID) (*services.AuthorDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*services.AuthorDetail)
	return detail, args.Error(1)
}
