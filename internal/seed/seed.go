// Package seed fills an empty catalog with a handful of sample records.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
)

type authorSeed struct {
	first, family, born, died string
}

type bookSeed struct {
	title, summary, isbn string
	author               int
	genres               []int
}

type copySeed struct {
	book    int
	imprint string
	status  models.CopyStatus
	dueBack string
}

var (
	authorSeeds = []authorSeed{
		{"Patrick", "Rothfuss", "1973-06-06", ""},
		{"Ben", "Bova", "1932-11-08", ""},
		{"Isaac", "Asimov", "1920-01-02", "1992-04-06"},
		{"Bob", "Billings", "", ""},
		{"Jim", "Jones", "1971-12-16", ""},
	}
	genreSeeds = []string{"Fantasy", "Science Fiction", "French Poetry"}
	bookSeeds  = []bookSeed{
		{
			title:   "The Name of the Wind",
			summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon.",
			isbn:    "9781473211896",
			author:  0,
			genres:  []int{0},
		},
		{
			title:   "The Slow Regard of Silent Things",
			summary: "Deep below the University, there is a dark place. Few people know of it.",
			isbn:    "9780756411336",
			author:  0,
			genres:  []int{0},
		},
		{
			title:   "Apes and Angels",
			summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity.",
			isbn:    "9780765379528",
			author:  1,
			genres:  []int{1},
		},
		{
			title:   "Death Wave",
			summary: "In Ben Bova previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
			isbn:    "9780765379504",
			author:  1,
			genres:  []int{1},
		},
		{
			title:   "Test Book 1",
			summary: "Summary of test book 1",
			isbn:    "ISBN111111",
			author:  3,
			genres:  []int{0, 1},
		},
		{
			title:   "Test Book 2",
			summary: "Summary of test book 2",
			isbn:    "ISBN222222",
			author:  3,
		},
	}
	copySeeds = []copySeed{
		{0, "London Gollancz, 2014.", models.CopyStatusAvailable, ""},
		{1, "Gollancz, 2011.", models.CopyStatusLoaned, "2026-11-01"},
		{2, "Gollancz, 2015.", "", ""},
		{3, "New York Tom Doherty Associates, 2016.", models.CopyStatusAvailable, ""},
		{3, "New York Tom Doherty Associates, 2016.", models.CopyStatusAvailable, ""},
		{3, "New York Tom Doherty Associates, 2016.", models.CopyStatusAvailable, ""},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.CopyStatusAvailable, ""},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.CopyStatusMaintenance, ""},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.CopyStatusLoaned, "2026-12-15"},
		{0, "Imprint XXX2", "", ""},
		{1, "Imprint XXX3", "", ""},
	}
)

// Run populates the catalog through the regular workflows, so every sample record
// passes the same validation as user input. A catalog that already has authors is
// left untouched.
func Run(ctx context.Context, lib *services.Library, logger *zap.Logger) error {
	counts, err := lib.Catalog.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if counts.Authors > 0 {
		logger.Info("catalog already populated, skipping seed", zap.Int64("authors", counts.Authors))
		return nil
	}

	authors := make([]*models.Author, 0, len(authorSeeds))
	for _, s := range authorSeeds {
		a, err := lib.Authors.Create(ctx, &services.AuthorForm{
			FirstName:   s.first,
			FamilyName:  s.family,
			DateOfBirth: s.born,
			DateOfDeath: s.died,
		})
		if err != nil {
			return fmt.Errorf("seed author %s %s: %w", s.first, s.family, err)
		}
		authors = append(authors, a)
	}

	genres := make([]*models.Genre, 0, len(genreSeeds))
	for _, name := range genreSeeds {
		g, err := lib.Genres.Create(ctx, &services.GenreForm{Name: name})
		if err != nil {
			return fmt.Errorf("seed genre %s: %w", name, err)
		}
		genres = append(genres, g)
	}

	books := make([]*models.Book, 0, len(bookSeeds))
	for _, s := range bookSeeds {
		form := &services.BookForm{
			Title:   s.title,
			Author:  authors[s.author].ID.String(),
			Summary: s.summary,
			ISBN:    s.isbn,
		}
		for _, gi := range s.genres {
			form.Genre = append(form.Genre, genres[gi].ID.String())
		}
		b, err := lib.Books.Create(ctx, form)
		if err != nil {
			return fmt.Errorf("seed book %s: %w", s.title, err)
		}
		books = append(books, b)
	}

	for _, s := range copySeeds {
		_, err := lib.BookInstances.Create(ctx, &services.BookInstanceForm{
			Book:       books[s.book].ID.String(),
			Imprint:    s.imprint,
			CopyStatus: string(s.status),
			DueBack:    s.dueBack,
		})
		if err != nil {
			return fmt.Errorf("seed copy of %s: %w", books[s.book].Title, err)
		}
	}

	logger.Info("catalog seeded",
		zap.Int("authors", len(authors)),
		zap.Int("genres", len(genres)),
		zap.Int("books", len(books)),
		zap.Int("copies", len(copySeeds)),
	)
	return nil
}
