package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

func (h *LibraryHandler) listGenres(c *gin.Context) {
	genres, err := h.lib.Genres.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_list.html", gin.H{"title": "Genre List", "genres": genres})
}

func (h *LibraryHandler) genreDetail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Genres.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_detail.html", gin.H{
		"title": "Genre Detail",
		"genre": detail.Genre,
		"books": detail.Books,
	})
}

func (h *LibraryHandler) renderGenreForm(c *gin.Context, title string, form services.GenreForm, errs validation.Errors) {
	c.HTML(http.StatusOK, "genre_form.html", gin.H{"title": title, "form": form, "errors": errs})
}

func (h *LibraryHandler) createGenreForm(c *gin.Context) {
	h.renderGenreForm(c, "Create Genre", services.GenreForm{}, nil)
}

// createGenre redirects to the stored genre, which is the existing one when the
// name was already taken.
func (h *LibraryHandler) createGenre(c *gin.Context) {
	var form services.GenreForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	genre, err := h.lib.Genres.Create(c.Request.Context(), &form)
	if errs, ok := validationErrors(err); ok {
		h.renderGenreForm(c, "Create Genre", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, genre.URL())
}

func (h *LibraryHandler) updateGenreForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	genre, err := h.lib.Genres.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderGenreForm(c, "Update Genre", services.NewGenreForm(genre), nil)
}

func (h *LibraryHandler) updateGenre(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form services.GenreForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	genre, err := h.lib.Genres.Update(c.Request.Context(), id, &form)
	if errs, ok := validationErrors(err); ok {
		h.renderGenreForm(c, "Update Genre", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, genre.URL())
}

func (h *LibraryHandler) deleteGenreForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Genres.Detail(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.Redirect(http.StatusFound, models.CollectionURL("genre"))
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_delete.html", gin.H{
		"title": "Delete Genre",
		"genre": detail.Genre,
		"books": detail.Books,
	})
}

func (h *LibraryHandler) deleteGenre(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	blocked, err := h.lib.Genres.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrDeletionBlocked) {
		c.HTML(http.StatusOK, "genre_delete.html", gin.H{
			"title": "Delete Genre",
			"genre": blocked.Genre,
			"books": blocked.Books,
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.CollectionURL("genre"))
}
