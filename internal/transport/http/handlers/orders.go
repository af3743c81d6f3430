package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/transport/http/middleware"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// OrderHandler serves order endpoints.
type OrderHandler struct {
	orders *usecase.OrderService
}

// NewOrderHandler builds an order handler.
func NewOrderHandler(orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderItemRequest references a product and quantity in an order payload.
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest defines the payload for order creation.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Notes           string                 `json:"notes"`
}

// UpdateOrderStatusRequest defines the payload for status updates.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create godoc
// @Summary Create an order
// @Description Snapshots product names and prices, computes the total server-side, and creates the order with status pending.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body CreateOrderRequest true "Order payload"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, "authentication required"))
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			respondBadRequest(c, "invalid productId")
			return
		}
		items = append(items, usecase.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := h.orders.Create(c.Request.Context(), actor.ID, usecase.OrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to create order")
		return
	}

	respondData(c, http.StatusCreated, newOrderView(order))
}

// List godoc
// @Summary List orders
// @Description Clients see their own orders; admin and superadmin see all.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, "authentication required"))
		return
	}

	orders, err := h.orders.List(c.Request.Context(), actor)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list orders")
		return
	}

	respondList(c, newOrderViews(orders), len(orders))
}

// Get godoc
// @Summary Get an order
// @Description Clients can only read their own orders.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, "authentication required"))
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), actor, id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
			{Err: usecase.ErrOrderAccessDenied, Status: http.StatusForbidden, Message: "order access denied"},
		}, http.StatusInternalServerError, "failed to load order")
		return
	}

	respondData(c, http.StatusOK, newOrderView(order))
}

// UpdateStatus godoc
// @Summary Update an order's status
// @Description Accepts any status enum value at any time.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param payload body UpdateOrderStatusRequest true "Status payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to update order status")
		return
	}

	respondData(c, http.StatusOK, newOrderView(order))
}

// Delete godoc
// @Summary Delete an order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
		}, http.StatusInternalServerError, "failed to delete order")
		return
	}

	respondMessage(c, http.StatusOK, "Order deleted.", nil)
}
