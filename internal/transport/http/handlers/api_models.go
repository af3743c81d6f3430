package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// ErrorBody carries the failure description inside the error envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the envelope returned on every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds the error envelope for the given status and message.
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: message, Status: status}}
}

// SuccessResponse is the envelope returned on every successful request.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Count: &count, Data: data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

// objectIDParam parses a path parameter as an ObjectID and writes a 400
// response when the value is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// UserView is the public projection of an account. Password and verification
// fields never leave the service.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(user *domain.User) UserView {
	return UserView{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

// ProductView is the public projection of a catalog entry.
type ProductView struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Price       float64                `json:"price"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	ImageURL    string                 `json:"imageUrl,omitempty"`
	Stock       int                    `json:"stock"`
	Featured    bool                   `json:"featured"`
	Ratings     domain.RatingAggregate `json:"ratings"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func newProductView(product *domain.Product) ProductView {
	return ProductView{
		ID:          product.ID.Hex(),
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Category:    string(product.Category),
		ImageURL:    product.ImageURL,
		Stock:       product.Stock,
		Featured:    product.Featured,
		Ratings:     product.Ratings,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func newProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	return views
}

// ReviewView is the public projection of a review.
type ReviewView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Verified  bool      `json:"verified"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newReviewView(review *domain.Review) ReviewView {
	return ReviewView{
		ID:        review.ID.Hex(),
		ProductID: review.ProductID.Hex(),
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Verified:  review.Verified,
		Helpful:   review.Helpful,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func newReviewViews(reviews []domain.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, newReviewView(&reviews[i]))
	}
	return views
}

// OrderItemView mirrors a snapshotted order line.
type OrderItemView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderView is the public projection of an order.
type OrderView struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Items           []OrderItemView        `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Notes           string                 `json:"notes,omitempty"`
	Status          string                 `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func newOrderView(order *domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID: item.ProductID.Hex(),
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return OrderView{
		ID:              order.ID.Hex(),
		UserID:          order.UserID.Hex(),
		Items:           items,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		Notes:           order.Notes,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func newOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}
