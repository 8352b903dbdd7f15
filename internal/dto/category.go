package dto

// CreateCategoryRequest is the JSON body for POST /categories.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=60"`
	Color string `json:"color" binding:"required,hexcolor"`
}

// CategoryResponse is a category as returned by the API.
type CategoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
