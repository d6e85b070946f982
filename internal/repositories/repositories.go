package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"locallibrary/internal/models"
)

// Every method takes an optional *gorm.DB so services can pass a transaction or a
// context-bound session; nil falls back to the repository's own handle.

type AuthorRepository interface {
	Create(db *gorm.DB, author *models.Author) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error)
	List(db *gorm.DB) ([]models.Author, error)
	Update(db *gorm.DB, id uuid.UUID, author *models.Author) error
	DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error)
	Count(db *gorm.DB) (int64, error)
}

type GenreRepository interface {
	Create(db *gorm.DB, genre *models.Genre) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Genre, error)
	GetByName(db *gorm.DB, name string) (*models.Genre, error)
	List(db *gorm.DB) ([]models.Genre, error)
	ListByIDs(db *gorm.DB, ids []uuid.UUID) ([]models.Genre, error)
	Update(db *gorm.DB, id uuid.UUID, genre *models.Genre) error
	DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error)
	Count(db *gorm.DB) (int64, error)
}

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	List(db *gorm.DB) ([]models.Book, error)
	ListByAuthor(db *gorm.DB, authorID uuid.UUID) ([]models.Book, error)
	ListByGenre(db *gorm.DB, genreID uuid.UUID) ([]models.Book, error)
	Update(db *gorm.DB, id uuid.UUID, book *models.Book) error
	DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error)
	Count(db *gorm.DB) (int64, error)
}

type BookInstanceRepository interface {
	Create(db *gorm.DB, instance *models.BookInstance) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.BookInstance, error)
	List(db *gorm.DB, status models.CopyStatus) ([]models.BookInstance, error)
	ListByBook(db *gorm.DB, bookID uuid.UUID) ([]models.BookInstance, error)
	Update(db *gorm.DB, id uuid.UUID, instance *models.BookInstance) error
	Delete(db *gorm.DB, id uuid.UUID) error
	Count(db *gorm.DB, status models.CopyStatus) (int64, error)
}

// concrete implementations

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Create(author).Error
}

func (r *authorRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	if db == nil {
		db = r.db
	}
	var author models.Author
	if err := db.First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List(db *gorm.DB) ([]models.Author, error) {
	if db == nil {
		db = r.db
	}
	var authors []models.Author
	if err := db.Order("family_name ASC, first_name ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// Update replaces every column of the author at id. It returns gorm.ErrRecordNotFound
// when no row matched.
func (r *authorRepository) Update(db *gorm.DB, id uuid.UUID, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	author.ID = id
	res := db.Model(&models.Author{}).
		Where("id = ?", id).
		Select("first_name", "family_name", "date_of_birth", "date_of_death").
		Updates(author)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUnreferenced removes the author only while no book points at it, as one
// statement. The boolean reports whether a row was removed.
func (r *authorRepository) DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	books := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Book{}).
		Select("1").
		Where("author_id = ?", id)
	res := db.Where("id = ? AND NOT EXISTS (?)", id, books).Delete(&models.Author{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *authorRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	err := db.Model(&models.Author{}).Count(&n).Error
	return n, err
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(db *gorm.DB, genre *models.Genre) error {
	if db == nil {
		db = r.db
	}
	return db.Create(genre).Error
}

func (r *genreRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Genre, error) {
	if db == nil {
		db = r.db
	}
	var genre models.Genre
	if err := db.First(&genre, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetByName is an exact, case-sensitive match.
func (r *genreRepository) GetByName(db *gorm.DB, name string) (*models.Genre, error) {
	if db == nil {
		db = r.db
	}
	var genre models.Genre
	if err := db.Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) List(db *gorm.DB) ([]models.Genre, error) {
	if db == nil {
		db = r.db
	}
	var genres []models.Genre
	if err := db.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) ListByIDs(db *gorm.DB, ids []uuid.UUID) ([]models.Genre, error) {
	if db == nil {
		db = r.db
	}
	genres := []models.Genre{}
	if len(ids) == 0 {
		return genres, nil
	}
	if err := db.Where("id IN ?", ids).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) Update(db *gorm.DB, id uuid.UUID, genre *models.Genre) error {
	if db == nil {
		db = r.db
	}
	genre.ID = id
	res := db.Model(&models.Genre{}).
		Where("id = ?", id).
		Select("name").
		Updates(genre)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *genreRepository) DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	links := db.Session(&gorm.Session{NewDB: true}).
		Table("book_genres").
		Select("1").
		Where("genre_id = ?", id)
	res := db.Where("id = ? AND NOT EXISTS (?)", id, links).Delete(&models.Genre{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *genreRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	err := db.Model(&models.Genre{}).Count(&n).Error
	return n, err
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create inserts the book and links its genres. Genres are only referenced, never
// upserted.
func (r *bookRepository) Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Omit("Author", "Genres.*").Create(book).Error
}

func (r *bookRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(db *gorm.DB) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	if err := db.Preload("Author").Order("title ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByAuthor(db *gorm.DB, authorID uuid.UUID) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	if err := db.Where("author_id = ?", authorID).Order("title ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByGenre(db *gorm.DB, genreID uuid.UUID) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	err := db.
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("books.title ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Update overwrites the scalar columns and replaces the genre set. Callers should
// pass a transaction so both steps land together.
func (r *bookRepository) Update(db *gorm.DB, id uuid.UUID, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	book.ID = id
	res := db.Model(&models.Book{}).
		Where("id = ?", id).
		Select("title", "author_id", "summary", "isbn").
		Updates(book)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	genres := db.Model(&models.Book{ID: id}).Association("Genres")
	if len(book.Genres) == 0 {
		return genres.Clear()
	}
	return genres.Replace(book.Genres)
}

// DeleteUnreferenced removes the book and its genre links while no copy exists.
func (r *bookRepository) DeleteUnreferenced(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	err := db.Exec(
		"DELETE FROM book_genres WHERE book_id = ? AND NOT EXISTS (SELECT 1 FROM book_instances WHERE book_id = ?)",
		id, id,
	).Error
	if err != nil {
		return false, err
	}
	copies := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.BookInstance{}).
		Select("1").
		Where("book_id = ?", id)
	res := db.Where("id = ? AND NOT EXISTS (?)", id, copies).Delete(&models.Book{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	err := db.Model(&models.Book{}).Count(&n).Error
	return n, err
}

type bookInstanceRepository struct {
	db *gorm.DB
}

func NewBookInstanceRepository(db *gorm.DB) BookInstanceRepository {
	return &bookInstanceRepository{db: db}
}

func (r *bookInstanceRepository) Create(db *gorm.DB, instance *models.BookInstance) error {
	if db == nil {
		db = r.db
	}
	return db.Omit(clause.Associations).Create(instance).Error
}

func (r *bookInstanceRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.BookInstance, error) {
	if db == nil {
		db = r.db
	}
	var instance models.BookInstance
	if err := db.Preload("Book").First(&instance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// List returns copies with their book populated, ordered by book title. An empty
// status lists every copy.
func (r *bookInstanceRepository) List(db *gorm.DB, status models.CopyStatus) ([]models.BookInstance, error) {
	if db == nil {
		db = r.db
	}
	q := db.Model(&models.BookInstance{}).
		Joins("JOIN books ON books.id = book_instances.book_id").
		Preload("Book")
	if status != "" {
		q = q.Where("book_instances.copy_status = ?", status)
	}
	var instances []models.BookInstance
	if err := q.Order("books.title ASC, book_instances.due_back ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *bookInstanceRepository) ListByBook(db *gorm.DB, bookID uuid.UUID) ([]models.BookInstance, error) {
	if db == nil {
		db = r.db
	}
	var instances []models.BookInstance
	if err := db.Where("book_id = ?", bookID).Order("due_back ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *bookInstanceRepository) Update(db *gorm.DB, id uuid.UUID, instance *models.BookInstance) error {
	if db == nil {
		db = r.db
	}
	instance.ID = id
	res := db.Model(&models.BookInstance{}).
		Where("id = ?", id).
		Select("book_id", "imprint", "copy_status", "due_back").
		Updates(instance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookInstanceRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.BookInstance{}, "id = ?", id).Error
}

func (r *bookInstanceRepository) Count(db *gorm.DB, status models.CopyStatus) (int64, error) {
	if db == nil {
		db = r.db
	}
	q := db.Model(&models.BookInstance{})
	if status != "" {
		q = q.Where("copy_status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
