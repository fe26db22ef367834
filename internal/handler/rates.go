package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
	"github.com/Dantetripodi/gestor-perfumes/internal/service"
)

type RatesHandler struct{ store *service.Store }

func NewRatesHandler(store *service.Store) *RatesHandler {
	return &RatesHandler{store: store}
}

func (h *RatesHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, quoteToResponse(h.store.RateQuote()))
}

func (h *RatesHandler) Refresh(c *gin.Context) {
	q := h.store.RefreshRate(c.Request.Context())
	c.JSON(http.StatusOK, quoteToResponse(q))
}

func (h *RatesHandler) SetManual(c *gin.Context) {
	var req dto.SetManualRateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	q, err := h.store.SetManualRate(c.Request.Context(), req.Sell)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteToResponse(q))
}

func (h *RatesHandler) SetSource(c *gin.Context) {
	var req dto.SetRateSourceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	q, err := h.store.SetRateSource(c.Request.Context(), rates.Source(req.Source))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteToResponse(q))
}

func quoteToResponse(q rates.Quote) dto.RateResponse {
	last := ""
	if !q.LastUpdated.IsZero() {
		last = q.LastUpdated.Format(time.RFC3339)
	}
	return dto.RateResponse{
		Buy:         q.Buy,
		Sell:        q.Sell,
		LastUpdated: last,
		Source:      string(q.Source),
	}
}
