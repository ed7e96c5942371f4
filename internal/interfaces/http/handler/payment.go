package handler

import (
	"time"

	ledgerapp "github.com/docflow/backend/internal/application/ledger"
	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader deduplicates retried payment submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles payment and knockoff API endpoints
type PaymentHandler struct {
	BaseHandler
	knockoffs *ledgerapp.KnockoffService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(knockoffs *ledgerapp.KnockoffService) *PaymentHandler {
	return &PaymentHandler{knockoffs: knockoffs}
}

// RegisterRoutes registers payment routes on the API group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("", h.List)
		payments.GET("/:id", h.GetByID)
		payments.POST("/:id/void", h.Void)
		payments.POST("/distribute-preview", h.PreviewDistribution)
	}
}

// CreatePaymentRequest is the request body for creating a payment
type CreatePaymentRequest struct {
	Kind           string    `json:"kind" binding:"required,oneof=AR AP"`
	CounterpartyID string    `json:"counterparty_id" binding:"required,uuid"`
	PaymentDate    time.Time `json:"payment_date" binding:"required"`
	Amount         float64   `json:"amount" binding:"required,gt=0"`
	Method         string    `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE CARD"`
	Reference      string    `json:"reference" binding:"max=100"`
	Remark         string    `json:"remark" binding:"max=500"`
	// Allocations and AutoAllocate are mutually exclusive; both absent
	// creates a fully unapplied payment
	Allocations  []AllocationInput `json:"allocations" binding:"omitempty,dive"`
	AutoAllocate bool              `json:"auto_allocate"`
}

// AllocationInput applies part of a payment to one invoice
type AllocationInput struct {
	InvoiceID string  `json:"invoice_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"gte=0"`
}

// VoidPaymentRequest is the request body for voiding a payment
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// DistributePreviewRequest plans an auto-distribution without mutating anything
type DistributePreviewRequest struct {
	Kind           string  `json:"kind" binding:"required,oneof=AR AP"`
	CounterpartyID string  `json:"counterparty_id" binding:"required,uuid"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
}

// ListPaymentsRequest carries the payment list filters
type ListPaymentsRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search         string `form:"search"`
	Kind           string `form:"kind" binding:"omitempty,oneof=AR AP"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	IncludeVoided  bool   `form:"include_voided"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            string               `json:"id"`
	Kind          string               `json:"kind"`
	PaymentNumber string               `json:"payment_number"`
	PaymentDate   time.Time            `json:"payment_date"`
	Counterparty  CounterpartyResponse `json:"counterparty"`
	CurrencyCode  string               `json:"currency_code"`
	Amount        float64              `json:"amount"`
	Applied       float64              `json:"applied"`
	Unapplied     float64              `json:"unapplied"`
	Method        string               `json:"method"`
	Reference     string               `json:"reference,omitempty"`
	Remark        string               `json:"remark,omitempty"`
	Status        string               `json:"status"`
	VoidReason    string               `json:"void_reason,omitempty"`
	Knockoffs     []KnockoffResponse   `json:"knockoffs"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// KnockoffResponse is one knockoff line with its audit snapshot
type KnockoffResponse struct {
	ID                string  `json:"id"`
	InvoiceID         string  `json:"invoice_id"`
	InvoiceNumber     string  `json:"invoice_number"`
	DocumentAmount    float64 `json:"document_amount"`
	OutstandingBefore float64 `json:"outstanding_before"`
	KnockoffAmount    float64 `json:"knockoff_amount"`
	OutstandingAfter  float64 `json:"outstanding_after"`
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	cmd := ledgerapp.CreatePaymentCommand{
		TenantID:       tenantID,
		Kind:           ledger.LedgerKind(req.Kind),
		CounterpartyID: counterpartyID,
		PaymentDate:    req.PaymentDate,
		Amount:         decimal.NewFromFloat(req.Amount),
		Method:         ledger.PaymentMethod(req.Method),
		Reference:      req.Reference,
		Remark:         req.Remark,
		AutoAllocate:   req.AutoAllocate,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		ActorID:        getActorID(c),
	}
	for _, alloc := range req.Allocations {
		invoiceID, err := uuid.Parse(alloc.InvoiceID)
		if err != nil {
			h.BadRequest(c, "Invalid invoice ID format")
			return
		}
		cmd.Allocations = append(cmd.Allocations, ledgerapp.AllocationCommand{
			InvoiceID: invoiceID,
			Amount:    decimal.NewFromFloat(alloc.Amount),
		})
	}

	payment, err := h.knockoffs.CreatePayment(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.knockoffs.GetPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := ledger.PaymentFilter{}
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	filter.IncludeVoided = req.IncludeVoided
	if req.Kind != "" {
		kind := ledger.LedgerKind(req.Kind)
		filter.Kind = &kind
	}
	if req.CounterpartyID != "" {
		counterpartyID, err := uuid.Parse(req.CounterpartyID)
		if err != nil {
			h.BadRequest(c, "Invalid counterparty ID format")
			return
		}
		filter.CounterpartyID = &counterpartyID
	}

	page, err := h.knockoffs.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(page.Items))
	for _, payment := range page.Items {
		responses = append(responses, toPaymentResponse(payment))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// Void handles POST /payments/:id/void
func (h *PaymentHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req VoidPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	payment, err := h.knockoffs.VoidPayment(c.Request.Context(), ledgerapp.VoidPaymentCommand{
		TenantID:  tenantID,
		PaymentID: id,
		Reason:    req.Reason,
		ActorID:   getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// PreviewDistribution handles POST /payments/distribute-preview
func (h *PaymentHandler) PreviewDistribution(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req DistributePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	preview, err := h.knockoffs.PreviewDistribution(c.Request.Context(), ledgerapp.DistributePreviewQuery{
		TenantID:       tenantID,
		Kind:           ledger.LedgerKind(req.Kind),
		CounterpartyID: counterpartyID,
		Amount:         decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preview)
}

func toPaymentResponse(p *ledger.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		Kind:          string(p.Kind),
		PaymentNumber: p.PaymentNumber,
		PaymentDate:   p.PaymentDate,
		Counterparty: CounterpartyResponse{
			Kind: string(p.Counterparty.Kind),
			ID:   p.Counterparty.ID.String(),
			Code: p.Counterparty.Code,
			Name: p.Counterparty.Name,
		},
		CurrencyCode: string(p.CurrencyCode),
		Amount:       p.Amount.InexactFloat64(),
		Applied:      p.AppliedAmount().InexactFloat64(),
		Unapplied:    p.UnappliedAmount().InexactFloat64(),
		Method:       string(p.Method),
		Reference:    p.Reference,
		Remark:       p.Remark,
		Status:       string(p.Status),
		VoidReason:   p.VoidReason,
		Knockoffs:    make([]KnockoffResponse, 0, len(p.Knockoffs)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
	for _, k := range p.Knockoffs {
		resp.Knockoffs = append(resp.Knockoffs, KnockoffResponse{
			ID:                k.ID.String(),
			InvoiceID:         k.InvoiceID.String(),
			InvoiceNumber:     k.InvoiceNumber,
			DocumentAmount:    k.DocumentAmount.InexactFloat64(),
			OutstandingBefore: k.OutstandingBefore.InexactFloat64(),
			KnockoffAmount:    k.KnockoffAmount.InexactFloat64(),
			OutstandingAfter:  k.OutstandingAfter.InexactFloat64(),
		})
	}
	return resp
}
