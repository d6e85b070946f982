package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

// listBookInstances accepts an optional ?status= filter.
func (h *LibraryHandler) listBookInstances(c *gin.Context) {
	status := models.CopyStatus(c.Query("status"))
	instances, err := h.lib.BookInstances.List(c.Request.Context(), status)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_list.html", gin.H{
		"title":     "Book Copy List",
		"instances": instances,
		"statuses":  models.CopyStatuses,
		"status":    status,
	})
}

func (h *LibraryHandler) bookInstanceDetail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	bi, err := h.lib.BookInstances.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_detail.html", gin.H{
		"title":    "Copy: " + bi.Book.Title,
		"instance": bi,
	})
}

func (h *LibraryHandler) renderBookInstanceForm(c *gin.Context, title string, form services.BookInstanceForm, errs validation.Errors) {
	books, err := h.lib.BookInstances.BookOptions(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_form.html", gin.H{
		"title":    title,
		"form":     form,
		"books":    books,
		"statuses": models.CopyStatuses,
		"errors":   errs,
	})
}

func (h *LibraryHandler) createBookInstanceForm(c *gin.Context) {
	h.renderBookInstanceForm(c, "Create BookInstance", services.BookInstanceForm{}, nil)
}

func (h *LibraryHandler) createBookInstance(c *gin.Context) {
	var form services.BookInstanceForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	bi, err := h.lib.BookInstances.Create(c.Request.Context(), &form)
	if errs, ok := validationErrors(err); ok {
		h.renderBookInstanceForm(c, "Create BookInstance", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, bi.URL())
}

func (h *LibraryHandler) updateBookInstanceForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	bi, err := h.lib.BookInstances.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderBookInstanceForm(c, "Update BookInstance", services.NewBookInstanceForm(bi), nil)
}

func (h *LibraryHandler) updateBookInstance(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form services.BookInstanceForm
	if err := c.ShouldBind(&form); err != nil {
		h.serverError(c, err)
		return
	}
	bi, err := h.lib.BookInstances.Update(c.Request.Context(), id, &form)
	if errs, ok := validationErrors(err); ok {
		h.renderBookInstanceForm(c, "Update BookInstance", form, errs)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, bi.URL())
}

func (h *LibraryHandler) deleteBookInstanceForm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	bi, err := h.lib.BookInstances.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.Redirect(http.StatusFound, models.CollectionURL("bookinstance"))
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_delete.html", gin.H{
		"title":    "Delete Book Copy",
		"instance": bi,
	})
}

func (h *LibraryHandler) deleteBookInstance(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.lib.BookInstances.Delete(c.Request.Context(), id); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.CollectionURL("bookinstance"))
}
