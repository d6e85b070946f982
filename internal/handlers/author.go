package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

func (h *LibraryHandler) listAuthors(c *gin.Context) {
	authors, err := h.lib.Authors.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_list.html", gin.H{"title": "Author List", "authors": authors})
}

func (h *LibraryHandler) authorDetail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Authors.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_detail.html", gin.H{
		"title":  "Author Detail",
		"author": detail.Author,
		"books":  detail.Books,
	})
}

func (h *LibraryHandler) renderAuthorForm(c *gin.Context, title string, form services.AuthorForm, errs validation.Errors) {
	c.HTML(http.StatusOK, "author_form.html", gin.H{"title": title, "form": form, "errors": errs})
}

func (h *LibraryHandler) createAuthorForm(c *gin.Context) {
	h.renderAuthorForm(c, "Create Author", services.AuthorForm{}, nil)
}

func (h *LibraryHandler) createAuthor(c *gin.Context) {
	var form services.AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	author, err := h.lib.Authors.Create(c.Request.Context(), &form)
	if errs, ok := validationErrors(err); ok {
		h.renderAuthorForm(c, "Create Author", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, author.URL())
}

func (h *LibraryHandler) updateAuthorForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	author, err := h.lib.Authors.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderAuthorForm(c, "Update Author", services.NewAuthorForm(author), nil)
}

func (h *LibraryHandler) updateAuthor(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form services.AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	author, err := h.lib.Authors.Update(c.Request.Context(), id, &form)
	if errs, ok := validationErrors(err); ok {
		h.renderAuthorForm(c, "Update Author", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, author.URL())
}

// deleteAuthorForm shows the confirmation page. An author that is already gone
// sends the user back to the list.
func (h *LibraryHandler) deleteAuthorForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Authors.Detail(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.Redirect(http.StatusFound, models.CollectionURL("author"))
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_delete.html", gin.H{
		"title":  "Delete Author",
		"author": detail.Author,
		"books":  detail.Books,
	})
}

func (h *LibraryHandler) deleteAuthor(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	blocked, err := h.lib.Authors.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrDeletionBlocked) {
		c.HTML(http.StatusOK, "author_delete.html", gin.H{
			"title":  "Delete Author",
			"author": blocked.Author,
			"books":  blocked.Books,
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.CollectionURL("author"))
}
