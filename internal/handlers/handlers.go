package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

type LibraryHandler struct {
	lib    *services.Library
	logger *zap.Logger
}

// RegisterRoutes mounts the catalog pages on r. r must already have the HTML
// templates loaded (see NewRouter).
func RegisterRoutes(r *gin.Engine, lib *services.Library, logger *zap.Logger) {
	h := &LibraryHandler{lib: lib, logger: logger}

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, models.CatalogPrefix) })
	r.GET("/status", h.status)

	catalog := r.Group(models.CatalogPrefix)
	catalog.GET("", h.index)
	catalog.GET("/", h.index)

	// Authors
	catalog.GET("/authors", h.listAuthors)
	catalog.GET("/author/create", h.createAuthorForm)
	catalog.POST("/author/create", h.createAuthor)
	catalog.GET("/author/:id", h.authorDetail)
	catalog.GET("/author/:id/update", h.updateAuthorForm)
	catalog.POST("/author/:id/update", h.updateAuthor)
	catalog.GET("/author/:id/delete", h.deleteAuthorForm)
	catalog.POST("/author/:id/delete", h.deleteAuthor)

	// Genres
	catalog.GET("/genres", h.listGenres)
	catalog.GET("/genre/create", h.createGenreForm)
	catalog.POST("/genre/create", h.createGenre)
	catalog.GET("/genre/:id", h.genreDetail)
	catalog.GET("/genre/:id/update", h.updateGenreForm)
	catalog.POST("/genre/:id/update", h.updateGenre)
	catalog.GET("/genre/:id/delete", h.deleteGenreForm)
	catalog.POST("/genre/:id/delete", h.deleteGenre)

	// Books
	catalog.GET("/books", h.listBooks)
	catalog.GET("/book/create", h.createBookForm)
	catalog.POST("/book/create", h.createBook)
	catalog.GET("/book/:id", h.bookDetail)
	catalog.GET("/book/:id/update", h.updateBookForm)
	catalog.POST("/book/:id/update", h.updateBook)
	catalog.GET("/book/:id/delete", h.deleteBookForm)
	catalog.POST("/book/:id/delete", h.deleteBook)

	// Book copies
	catalog.GET("/bookinstances", h.listBookInstances)
	catalog.GET("/bookinstance/create", h.createBookInstanceForm)
	catalog.POST("/bookinstance/create", h.createBookInstance)
	catalog.GET("/bookinstance/:id", h.bookInstanceDetail)
	catalog.GET("/bookinstance/:id/update", h.updateBookInstanceForm)
	catalog.POST("/bookinstance/:id/update", h.updateBookInstance)
	catalog.GET("/bookinstance/:id/delete", h.deleteBookInstanceForm)
	catalog.POST("/bookinstance/:id/delete", h.deleteBookInstance)

	r.NoRoute(func(c *gin.Context) { h.notFound(c, "Page not found") })
}

func (h *LibraryHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *LibraryHandler) index(c *gin.Context) {
	counts, err := h.lib.Catalog.Counts(c.Request.Context())
	data := gin.H{"title": "Local Library Home", "counts": counts}
	if err != nil {
		h.logger.Error("catalog counts failed", zap.Error(err))
		data["error"] = "Catalog counts are unavailable right now."
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// parseID reads the :id path parameter. A malformed id cannot name any record, so
// it is answered with the not-found page.
func (h *LibraryHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c, "Record not found")
		return uuid.Nil, false
	}
	return id, true
}

// fail answers a service error that the caller has no special rendering for.
func (h *LibraryHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		h.notFound(c, capitalize(err.Error()))
		return
	}
	h.serverError(c, err)
}

func (h *LibraryHandler) notFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"title":   "Not Found",
		"status":  http.StatusNotFound,
		"message": message,
	})
}

// serverError logs the cause and renders a page that reveals nothing about it.
func (h *LibraryHandler) serverError(c *gin.Context, err error) {
	h.logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Server Error",
		"status":  http.StatusInternalServerError,
		"message": "the server encountered a problem and could not process your request",
	})
}

// validationErrors extracts the field failures from a rejected submission.
func validationErrors(err error) (validation.Errors, bool) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Errors, true
	}
	return nil, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
