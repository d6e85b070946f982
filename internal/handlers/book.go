package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

func (h *LibraryHandler) listBooks(c *gin.Context) {
	books, err := h.lib.Books.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_list.html", gin.H{"title": "Book List", "books": books})
}

func (h *LibraryHandler) bookDetail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Books.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_detail.html", gin.H{
		"title":     detail.Book.Title,
		"book":      detail.Book,
		"instances": detail.Instances,
	})
}

// renderBookForm loads the author and genre pickers, with the genres in form
// checked, and renders the book form.
func (h *LibraryHandler) renderBookForm(c *gin.Context, title string, form services.BookForm, errs validation.Errors) {
	options, err := h.lib.Books.FormOptions(c.Request.Context(), &form)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_form.html", gin.H{
		"title":   title,
		"form":    form,
		"authors": options.Authors,
		"genres":  options.Genres,
		"errors":  errs,
	})
}

func (h *LibraryHandler) createBookForm(c *gin.Context) {
	h.renderBookForm(c, "Create Book", services.BookForm{}, nil)
}

func (h *LibraryHandler) createBook(c *gin.Context) {
	var form services.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	book, err := h.lib.Books.Create(c.Request.Context(), &form)
	if errs, ok := validationErrors(err); ok {
		h.renderBookForm(c, "Create Book", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, book.URL())
}

func (h *LibraryHandler) updateBookForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	book, err := h.lib.Books.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderBookForm(c, "Update Book", services.NewBookForm(book), nil)
}

func (h *LibraryHandler) updateBook(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form services.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	book, err := h.lib.Books.Update(c.Request.Context(), id, &form)
	if errs, ok := validationErrors(err); ok {
		h.renderBookForm(c, "Update Book", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, book.URL())
}

func (h *LibraryHandler) deleteBookForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.lib.Books.Detail(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.Redirect(http.StatusFound, models.CollectionURL("book"))
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_delete.html", gin.H{
		"title":     "Delete Book",
		"book":      detail.Book,
		"instances": detail.Instances,
	})
}

func (h *LibraryHandler) deleteBook(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	blocked, err := h.lib.Books.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrDeletionBlocked) {
		c.HTML(http.StatusOK, "book_delete.html", gin.H{
			"title":     "Delete Book",
			"book":      blocked.Book,
			"instances": blocked.Instances,
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.CollectionURL("book"))
}
