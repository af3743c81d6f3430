package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// ProductHandler serves catalog endpoints.
type ProductHandler struct {
	products *usecase.ProductService
}

// NewProductHandler builds a product handler.
func NewProductHandler(products *usecase.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductRequest defines the payload for product create and update.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Featured    bool    `json:"featured"`
}

func (req ProductRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Featured:    req.Featured,
	}
}

// List godoc
// @Summary List products
// @Description Returns products, optionally filtered by category and sorted.
// @Tags Products
// @Produce json
// @Param category query string false "Category filter"
// @Param sort query string false "Sort order: newest, price_asc, price_desc, name"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} SuccessResponse
// @Router /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter := port.ProductFilter{Sort: port.ProductSort(c.Query("sort"))}

	if category := c.Query("category"); category != "" {
		if !domain.ValidCategory(category) {
			respondBadRequest(c, "unknown category")
			return
		}
		cat := domain.Category(category)
		filter.Category = &cat
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			respondBadRequest(c, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list products")
		return
	}

	respondList(c, newProductViews(products), len(products))
}

// Get godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
		}, http.StatusInternalServerError, "failed to load product")
		return
	}

	respondData(c, http.StatusOK, newProductView(product))
}

// Create godoc
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body ProductRequest true "Product payload"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.toInput())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			validationCase(),
		}, http.StatusInternalServerError, "failed to create product")
		return
	}

	respondData(c, http.StatusCreated, newProductView(product))
}

// Update godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param payload body ProductRequest true "Product payload"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to update product")
		return
	}

	respondData(c, http.StatusOK, newProductView(product))
}

// Delete godoc
// @Summary Delete a product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Delete(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
		}, http.StatusInternalServerError, "failed to delete product")
		return
	}

	respondMessage(c, http.StatusOK, "Product deleted.", newProductView(product))
}
