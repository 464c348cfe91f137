package client

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/response"
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

func writeBindingError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

func clientIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid client id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("client_slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AddAdmin(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.AddAdmin(c.Request.Context(), c.GetString("user_id"), clientID, req.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListAdmins(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	resp, err := h.service.ListAdmins(c.Request.Context(), c.GetString("user_id"), clientID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Invite(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req InviteAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Invite(c.Request.Context(), c.GetString("user_id"), clientID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) AcceptInvite(c *gin.Context) {
	resp, err := h.service.AcceptInvite(c.Request.Context(), c.Param("token"), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}
