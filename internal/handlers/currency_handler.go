package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// CurrencyHandler handles currency reference data requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// CreateCurrencyRequest is the payload for registering a currency.
type CreateCurrencyRequest struct {
	Code   string `json:"code" binding:"required,iso4217"`
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Symbol string `json:"symbol" binding:"required,min=1,max=8"`
}

// CreateCurrency handles registering a new currency.
// @Summary     Create a currency
// @Description Register a currency by its ISO 4217 code
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCurrencyRequest true "Currency details"
// @Success     201 {object} models.Currency "Currency created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.CreateCurrency(req.Code, req.Name, req.Symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// GetCurrencies handles listing all registered currencies.
// @Summary     Get currencies
// @Description List all registered currencies, ordered by code
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Currency "Currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// DeleteCurrency handles deleting a currency.
// @Summary     Delete a currency
// @Description Delete a currency that no transactions reference
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Currency ID"
// @Success     204 "Currency deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Currency in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.currencyService.DeleteCurrency(currencyID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
