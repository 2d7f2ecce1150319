package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse341/records-api/internal/core/ports"
)

// DataHandler handles HTTP requests for data records.
type DataHandler struct {
	service ports.DataService
}

func NewDataHandler(service ports.DataService) *DataHandler {
	return &DataHandler{service: service}
}

// List handles GET /data.
//
// @Summary      List data records
// @Description  Returns every data record, newest first.
// @Tags         data
// @Produce      json
// @Success      200  {array}   domain.DataRecord
// @Failure      500  {object}  errorResponse
// @Router       /data [get]
func (h *DataHandler) List(c echo.Context) error {
	records, err := h.service.ListData(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// Get handles GET /data/:id.
//
// @Summary      Get a data record
// @Tags         data
// @Produce      json
// @Param        id   path      string  true  "Record id (24 hex characters)"
// @Success      200  {object}  domain.DataRecord
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /data/{id} [get]
func (h *DataHandler) Get(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	record, err := h.service.GetData(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// Create handles POST /data.
//
// @Summary      Create a data record
// @Description  createdDate and lastModified are assigned by the server.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body  body      dataRequest  true  "Data record"
// @Success      201   {object}  domain.DataRecord
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /data [post]
func (h *DataHandler) Create(c echo.Context) error {
	var req dataRequest
	if err := bindAndValidate(c, &req, nil); err != nil {
		return err
	}

	record, err := h.service.CreateData(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// Update handles PUT /data/:id. The body replaces the record.
//
// @Summary      Replace a data record
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Record id"
// @Param        body  body      dataRequest  true  "Data record"
// @Success      200   {object}  domain.DataRecord
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /data/{id} [put]
func (h *DataHandler) Update(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	var req dataRequest
	if err := bindAndValidate(c, &req, nil); err != nil {
		return err
	}

	record, err := h.service.UpdateData(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /data/:id.
//
// @Summary      Delete a data record
// @Tags         data
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  deleteDataResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /data/{id} [delete]
func (h *DataHandler) Delete(c echo.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	record, err := h.service.DeleteData(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteDataResponse{
		Message:     "Data deleted successfully",
		DeletedData: record,
	})
}

// ProtectedList handles GET /data/protected.
//
// @Summary      List data records (authenticated)
// @Tags         data
// @Produce      json
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /data/protected [get]
func (h *DataHandler) ProtectedList(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListData(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protectedResponse{
		Message: "Protected data retrieved successfully",
		User:    sess,
		Data:    records,
	})
}

// ProtectedCreate handles POST /data/protected. metadata.author is always
// the caller's display name; any value in the body is discarded.
//
// @Summary      Create a data record (authenticated)
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body  body      dataRequest  true  "Data record; metadata.author is ignored"
// @Success      201   {object}  protectedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /data/protected [post]
func (h *DataHandler) ProtectedCreate(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req dataRequest
	if err := bindAndValidate(c, &req, func() { req.Metadata.Author = sess.DisplayName }); err != nil {
		return err
	}

	record, err := h.service.CreateData(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, protectedResponse{
		Message: "Data created by authenticated user",
		User:    sess,
		Data:    record,
	})
}
