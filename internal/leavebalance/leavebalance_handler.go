package leavebalance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-portal/internal/employee"
	"go-portal/internal/shared/apperror"
	"go-portal/internal/shared/response"
)

type Handler struct {
	service      Service
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewHandler(service Service, employeeRepo employee.Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{service: service, employeeRepo: employeeRepo, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func yearParam(c *gin.Context) int {
	year, err := strconv.Atoi(c.DefaultQuery("year", ""))
	if err != nil || year == 0 {
		return time.Now().UTC().Year()
	}
	return year
}

// Mine returns the caller's own derived balances for a year.
func (h *Handler) Mine(c *gin.Context) {
	emp, err := h.employeeRepo.FindByID(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Compute(c.Request.Context(), emp, yearParam(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// ForEmployee lets HR inspect any employee's derived balances.
func (h *Handler) ForEmployee(c *gin.Context) {
	emp, err := h.employeeRepo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Compute(c.Request.Context(), emp, yearParam(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertOverride(c *gin.Context) {
	var req UpsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, "VALIDATION_ERROR", mapped.Message, nil)
		return
	}

	resp, err := h.service.UpsertOverride(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	err := h.service.DeleteOverride(
		c.Request.Context(),
		c.Param("id"),
		c.Param("typeId"),
		yearParam(c),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListOverrides(c *gin.Context) {
	resp, err := h.service.ListOverrides(c.Request.Context(), c.Param("id"), yearParam(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
