package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/service"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSale(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListSales(c.Request.Context()))
}
