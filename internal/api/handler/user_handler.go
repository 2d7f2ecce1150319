package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse341/records-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Description  Returns every user, most recent hire first.
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.UserRecord
// @Failure      500  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (24 hex characters)"
// @Success      200  {object}  domain.UserRecord
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Description  Emails are unique, compared case-insensitively.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User"
// @Success      201   {object}  domain.UserRecord
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req, nil); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PUT /users/:id.
//
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "User id"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  domain.UserRecord
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := bindAndValidate(c, &req, nil); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteUserResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	user, err := h.service.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{
		Message:     "User deleted successfully",
		DeletedUser: user,
	})
}

// ProtectedList handles GET /users/protected.
//
// @Summary      List users (authenticated)
// @Tags         users
// @Produce      json
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/protected [get]
func (h *UserHandler) ProtectedList(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protectedResponse{
		Message: "Protected users retrieved successfully",
		User:    sess,
		Data:    users,
	})
}

// ProtectedCreate handles POST /users/protected. metadata.createdBy is
// always the caller's display name.
//
// @Summary      Create a user (authenticated)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User; metadata.createdBy is ignored"
// @Success      201   {object}  protectedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/protected [post]
func (h *UserHandler) ProtectedCreate(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := bindAndValidate(c, &req, func() { req.Metadata.CreatedBy = sess.DisplayName }); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, protectedResponse{
		Message: "User created by authenticated user",
		User:    sess,
		Data:    user,
	})
}
