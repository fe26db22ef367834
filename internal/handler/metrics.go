package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dantetripodi/gestor-perfumes/internal/service"
)

type MetricsHandler struct{ svc service.MetricsService }

func NewMetricsHandler(svc service.MetricsService) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

func (h *MetricsHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summary(c.Request.Context()))
}
