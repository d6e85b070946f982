package models

import (
	"fmt"
	"time"

	"github.com/gedex/inflector"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogPrefix is the path every canonical URL lives under.
const CatalogPrefix = "/catalog"

type CopyStatus string

const (
	CopyStatusAvailable   CopyStatus = "Available"
	CopyStatusMaintenance CopyStatus = "Maintenance"
	CopyStatusLoaned      CopyStatus = "Loaned"
	CopyStatusReserved    CopyStatus = "Reserved"
)

// CopyStatuses lists every valid copy status in display order.
var CopyStatuses = []CopyStatus{
	CopyStatusAvailable,
	CopyStatusMaintenance,
	CopyStatusLoaned,
	CopyStatusReserved,
}

// IsValidCopyStatus reports whether s is one of the enumerated copy statuses.
func IsValidCopyStatus(s string) bool {
	for _, status := range CopyStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// UnnamedAuthor is shown for an author record lacking either name part.
const UnnamedAuthor = "default"

// Stored dates are calendar dates kept as UTC midnight; they are always rendered in
// UTC so a driver returning local time cannot shift them by a day.
const (
	lifespanDateLayout = "Mon, Jan 2, 2006"
	dueBackDateLayout  = "Jan 2, 2006"
)

type Author struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"size:100;not null;index" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

type Book struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string    `gorm:"size:255;not null;index" json:"title"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author"`
	Summary  string    `gorm:"type:text;not null" json:"summary"`
	ISBN     string    `gorm:"column:isbn;size:32;not null" json:"isbn"`
	Genres   []Genre   `gorm:"many2many:book_genres;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"genres"`
}

type BookInstance struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"book_id"`
	Book       Book       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"book"`
	Imprint    string     `gorm:"size:255;not null" json:"imprint"`
	CopyStatus CopyStatus `gorm:"size:16;not null;default:Maintenance;index" json:"copy_status"`
	DueBack    time.Time  `gorm:"not null" json:"due_back"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	if bi.CopyStatus == "" {
		bi.CopyStatus = CopyStatusMaintenance
	}
	if bi.DueBack.IsZero() {
		bi.DueBack = time.Now().UTC()
	}
	return nil
}

// Name is the family name followed by the first name, or UnnamedAuthor when either
// is missing.
func (a Author) Name() string {
	if a.FamilyName == "" || a.FirstName == "" {
		return UnnamedAuthor
	}
	return a.FamilyName + " " + a.FirstName
}

// Lifespan renders "<birth> - <death>", leaving either side blank when unknown.
func (a Author) Lifespan() string {
	var s string
	if a.DateOfBirth != nil {
		s = a.DateOfBirth.UTC().Format(lifespanDateLayout)
	}
	s += " - "
	if a.DateOfDeath != nil {
		s += a.DateOfDeath.UTC().Format(lifespanDateLayout)
	}
	return s
}

func (a Author) URL() string        { return EntityURL("author", a.ID) }
func (g Genre) URL() string         { return EntityURL("genre", g.ID) }
func (b Book) URL() string          { return EntityURL("book", b.ID) }
func (bi BookInstance) URL() string { return EntityURL("bookinstance", bi.ID) }

// DueBackFormatted is the due date in a short human form.
func (bi BookInstance) DueBackFormatted() string {
	return bi.DueBack.UTC().Format(dueBackDateLayout)
}

// EntityURL is the canonical detail URL of the entity kind with the given id.
func EntityURL(kind string, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", CatalogPrefix, kind, id)
}

// CollectionURL is the list URL for an entity kind, e.g. "/catalog/authors".
func CollectionURL(kind string) string {
	return CatalogPrefix + "/" + inflector.Pluralize(kind)
}
