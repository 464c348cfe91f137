package timerecord

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/response"
	"timetracker/internal/shared/timeutil"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func dateRangeQuery(c *gin.Context) timeutil.DateRange {
	return timeutil.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
}

func (h *Handler) ClockIn(c *gin.Context) {
	clientID, ok := int64Param(c, "client_id")
	if !ok {
		return
	}
	employeeID, ok := int64Param(c, "employee_id")
	if !ok {
		return
	}

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), c.GetString("user_id"), clientID, employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	clientID, ok := int64Param(c, "client_id")
	if !ok {
		return
	}
	employeeID, ok := int64Param(c, "employee_id")
	if !ok {
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), c.GetString("user_id"), clientID, employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.GetString("user_id"), c.Param("record_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListUnapproved(c *gin.Context) {
	clientID, ok := int64Param(c, "client_id")
	if !ok {
		return
	}

	resp, err := h.service.ListUnapproved(c.Request.Context(), c.GetString("user_id"), clientID, dateRangeQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForEmployee(c *gin.Context) {
	clientID, ok := int64Param(c, "client_id")
	if !ok {
		return
	}
	employeeID, ok := int64Param(c, "employee_id")
	if !ok {
		return
	}

	resp, err := h.service.ListForEmployee(c.Request.Context(), c.GetString("user_id"), clientID, employeeID, dateRangeQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	clientID, ok := int64Param(c, "client_id")
	if !ok {
		return
	}
	employeeID, ok := int64Param(c, "employee_id")
	if !ok {
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), c.GetString("user_id"), clientID, employeeID, dateRangeQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
