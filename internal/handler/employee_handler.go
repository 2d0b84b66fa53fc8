package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_directory/internal/service"
	"github.com/locvowork/employee_directory/internal/service/serviceutils"
	"github.com/locvowork/employee_directory/internal/store"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type EmployeeHandler struct {
	svc *service.DirectoryService
}

func NewEmployeeHandler(svc *service.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	created, err := h.svc.CreateEmployee(c.Request().Context(), req.fields(), req.contactInputs())
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to create employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", created)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id := c.Param("id")

	emp, err := h.svc.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to get employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	id := c.Param("id")

	var req UpdateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.UpdateEmployee(c.Request().Context(), id, req.fields())
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to update employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee updated successfully", emp)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id := c.Param("id")

	emp, removed, err := h.svc.DeleteEmployee(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to delete employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee deleted successfully", map[string]interface{}{
		"employee":         emp,
		"contacts_removed": removed,
	})
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultPageSize)
	if page < 1 || limit < 1 {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "page and limit must be >= 1", nil)
	}

	result, err := h.svc.ListEmployees(c.Request().Context(), page, limit)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to list employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", result)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

// statusFor maps the service error taxonomy onto HTTP codes: NotFound
// is a 404, everything else (partial failures, store errors) a 500.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
