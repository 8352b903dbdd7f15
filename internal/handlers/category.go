package handlers

import (
	"errors"
	"net/http"

	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/dto"
	"github.com/mrgear111/GROW/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}   dto.CategoryResponse
// @Failure      500  {object}  map[string]string
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		internalError(c, "list categories", err)
		return
	}
	out := make([]dto.CategoryResponse, len(list))
	for i, cat := range list {
		out[i] = categoryToResponse(cat)
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCategoryRequest  true  "Category body"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		default:
			internalError(c, "create category", err)
		}
		return
	}
	c.JSON(http.StatusCreated, categoryToResponse(cat))
}

func categoryToResponse(c dom.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Color: c.Color}
}
