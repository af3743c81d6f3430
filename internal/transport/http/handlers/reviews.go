package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// ReviewHandler serves review endpoints.
type ReviewHandler struct {
	reviews *usecase.ReviewService
}

// NewReviewHandler builds a review handler.
func NewReviewHandler(reviews *usecase.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReviewRequest defines the payload for review creation.
type CreateReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Author    string `json:"author" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest defines the payload for review update.
type UpdateReviewRequest struct {
	Author   string `json:"author" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
	Verified bool   `json:"verified"`
	Helpful  int    `json:"helpful"`
}

// List godoc
// @Summary List reviews
// @Description Returns reviews, optionally scoped to one product.
// @Tags Reviews
// @Produce json
// @Param productId query string false "Product ID filter"
// @Success 200 {object} SuccessResponse
// @Router /api/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	filter := port.ReviewFilter{}

	if raw := c.Query("productId"); raw != "" {
		productID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondBadRequest(c, "invalid productId")
			return
		}
		filter.ProductID = &productID
	}

	reviews, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	respondList(c, newReviewViews(reviews), len(reviews))
}

// Get godoc
// @Summary Get a review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReviewNotFound, Status: http.StatusNotFound, Message: "review not found"},
		}, http.StatusInternalServerError, "failed to load review")
		return
	}

	respondData(c, http.StatusOK, newReviewView(review))
}

// Create godoc
// @Summary Create a review
// @Description Adds a review to an existing product and refreshes its rating aggregate.
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body CreateReviewRequest true "Review payload"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondBadRequest(c, "invalid productId")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), productID, usecase.ReviewInput{
		Author:  req.Author,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to create review")
		return
	}

	respondData(c, http.StatusCreated, newReviewView(review))
}

// Update godoc
// @Summary Update a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param payload body UpdateReviewRequest true "Review payload"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), id, usecase.ReviewInput{
		Author:   req.Author,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Verified: req.Verified,
		Helpful:  req.Helpful,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReviewNotFound, Status: http.StatusNotFound, Message: "review not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to update review")
		return
	}

	respondData(c, http.StatusOK, newReviewView(review))
}

// Delete godoc
// @Summary Delete a review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.Delete(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReviewNotFound, Status: http.StatusNotFound, Message: "review not found"},
		}, http.StatusInternalServerError, "failed to delete review")
		return
	}

	respondMessage(c, http.StatusOK, "Review deleted.", newReviewView(review))
}
