// Package transport exposes the HTTP API for payouts and diagnostics.
package transport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/bridge"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/pricing"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/sandbox"
	"go.uber.org/zap"
)

// Payouts is the slice of the orchestrator the handler needs.
type Payouts interface {
	InitiatePayout(ctx context.Context, bridgeID uuid.UUID, upiID string) (bridge.PayoutResult, error)
	ConfirmSettlement(ctx context.Context, bridgeID uuid.UUID, providerReference string) (bool, error)
}

// Prices serves current conversion rates.
type Prices interface {
	GetPrice(ctx context.Context) pricing.Quote
}

// BridgeHandler handles payout initiation, provider webhooks, and price
// queries.
type BridgeHandler struct {
	logger  *zap.Logger
	payouts Payouts
	prices  Prices
}

// NewBridgeHandler creates a bridge API handler.
func NewBridgeHandler(payouts Payouts, prices Prices, logger *zap.Logger) *BridgeHandler {
	return &BridgeHandler{logger: logger, payouts: payouts, prices: prices}
}

// InitiatePayoutRequest asks for a pending bridge transaction to be paid out.
type InitiatePayoutRequest struct {
	BridgeID uuid.UUID `json:"bridgeId" binding:"required"`
	UpiID    string    `json:"upiId" binding:"required"`
}

// InitiatePayout converts and dispatches a payout for a PENDING bridge
// transaction.
func (h *BridgeHandler) InitiatePayout(c *gin.Context) {
	var req InitiatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.payouts.InitiatePayout(c.Request.Context(), req.BridgeID, req.UpiID)
	if err != nil {
		h.logger.Error("initiate payout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"referenceId":  result.ReferenceID,
		"inrAmount":    result.InrAmount,
		"exchangeRate": result.ExchangeRate,
		"provider":     result.Provider,
	})
}

// Webhook receives terminal payout notifications from the provider. Unknown
// bridge ids and replayed events are acknowledged so the provider stops
// retrying.
func (h *BridgeHandler) Webhook(c *gin.Context) {
	var payload sandbox.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	bridgeID, err := uuid.Parse(payload.BridgeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bridge id"})
		return
	}

	switch payload.Event {
	case sandbox.EventCompleted:
		found, err := h.payouts.ConfirmSettlement(c.Request.Context(), bridgeID, payload.ProviderReference)
		if err != nil {
			h.logger.Error("confirm settlement", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !found {
			h.logger.Warn("webhook for unknown bridge transaction",
				zap.String("bridgeId", payload.BridgeID))
		}
	case sandbox.EventFailed:
		// The row stays PAYOUT_INITIATED; the payout can be retried.
		h.logger.Warn("payout failed at provider",
			zap.String("bridgeId", payload.BridgeID),
			zap.String("reference", payload.ProviderReference),
		)
	default:
		h.logger.Info("ignoring webhook event", zap.String("event", payload.Event))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Price returns the current ALGO conversion rate.
func (h *BridgeHandler) Price(c *gin.Context) {
	quote := h.prices.GetPrice(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"algoInr":   quote.AlgoInr,
		"algoUsd":   quote.AlgoUsd,
		"source":    quote.Source,
		"timestamp": quote.Timestamp,
	})
}
