package server

import (
	"net/http"
	"strconv"
	"strings"

	billingdomain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createBillRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	} `json:"items"`
	PaymentMethod      string  `json:"payment_method"`
	ApplyServiceCharge bool    `json:"apply_service_charge"`
	ServiceChargeRate  *string `json:"service_charge_rate"`
	IdempotencyKey     string  `json:"idempotency_key"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]billingdomain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, billingdomain.OrderItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
		})
	}

	var scRate *decimal.Decimal
	if req.ServiceChargeRate != nil {
		rate, err := decimal.NewFromString(strings.TrimSpace(*req.ServiceChargeRate))
		if err != nil {
			AbortWithError(c, newValidationError("service_charge_rate", "invalid_service_charge_rate", "invalid service charge rate"))
			return
		}
		scRate = &rate
	}

	idempotencyKey := strings.TrimSpace(req.IdempotencyKey)
	if idempotencyKey == "" {
		// The Idempotency-Key header is the conventional spelling; the
		// body field exists for clients that cannot set headers.
		idempotencyKey = strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	}

	resp, err := s.billingSvc.CreateBill(c.Request.Context(), orgID(c), billingdomain.CreateBillRequest{
		Items:              items,
		PaymentMethod:      billingdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		ApplyServiceCharge: req.ApplyServiceCharge,
		ServiceChargeRate:  scRate,
		IdempotencyKey:     idempotencyKey,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetBill(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billingSvc.GetBill(c.Request.Context(), orgID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = parsed
	}

	resp, err := s.billingSvc.ListBills(c.Request.Context(), orgID(c), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
