package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/shoplite-api/internal/transport/http/middleware"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// UserHandler serves account administration endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler builds a user handler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateRoleRequest defines the payload for role assignment.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List godoc
// @Summary List accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list users")
		return
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}

	respondList(c, views, len(views))
}

// Get godoc
// @Summary Get an account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	respondData(c, http.StatusOK, newUserView(user))
}

// UpdateRole godoc
// @Summary Assign a role
// @Description Sets the account's role to client, admin, or superadmin.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body UpdateRoleRequest true "Role payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			validationCase(),
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	respondData(c, http.StatusOK, newUserView(user))
}

// Delete godoc
// @Summary Delete an account
// @Description Actors can never delete their own account.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, "authentication required"))
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSelfDelete, Status: http.StatusBadRequest, Message: "cannot delete own account"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	respondMessage(c, http.StatusOK, "User deleted.", nil)
}
