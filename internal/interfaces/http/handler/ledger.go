package handler

import (
	"time"

	ledgerapp "github.com/docflow/backend/internal/application/ledger"
	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles ledger invoice API endpoints
type LedgerHandler struct {
	BaseHandler
	postings  *ledgerapp.PostingService
	knockoffs *ledgerapp.KnockoffService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(postings *ledgerapp.PostingService, knockoffs *ledgerapp.KnockoffService) *LedgerHandler {
	return &LedgerHandler{
		postings:  postings,
		knockoffs: knockoffs,
	}
}

// RegisterRoutes registers ledger routes on the API group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/ledger/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.GET("/outstanding", h.ListOutstanding)
	}
}

// ListInvoicesRequest carries the invoice list filters
type ListInvoicesRequest struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search          string `form:"search"`
	Kind            string `form:"kind" binding:"omitempty,oneof=AR AP"`
	Status          string `form:"status"`
	CounterpartyID  string `form:"counterparty_id" binding:"omitempty,uuid"`
	OutstandingOnly bool   `form:"outstanding_only"`
	IncludeVoided   bool   `form:"include_voided"`
}

// OutstandingInvoicesRequest carries the outstanding-invoice query
type OutstandingInvoicesRequest struct {
	Kind           string `form:"kind" binding:"required,oneof=AR AP"`
	CounterpartyID string `form:"counterparty_id" binding:"required,uuid"`
}

// InvoiceResponse represents a ledger invoice in API responses
type InvoiceResponse struct {
	ID                string               `json:"id"`
	Kind              string               `json:"kind"`
	SourceDocumentID  string               `json:"source_document_id"`
	InvoiceNumber     string               `json:"invoice_number"`
	InvoiceDate       time.Time            `json:"invoice_date"`
	DueDate           time.Time            `json:"due_date"`
	Counterparty      CounterpartyResponse `json:"counterparty"`
	CurrencyCode      string               `json:"currency_code"`
	NetTotal          float64              `json:"net_total"`
	PaidAmount        float64              `json:"paid_amount"`
	OutstandingAmount float64              `json:"outstanding_amount"`
	Status            string               `json:"status"`
	Reference         string               `json:"reference,omitempty"`
	IsVoid            bool                 `json:"is_void"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

// GetByID handles GET /ledger/invoices/:id
func (h *LedgerHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	inv, err := h.postings.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(inv))
}

// List handles GET /ledger/invoices
func (h *LedgerHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := ledger.InvoiceFilter{}
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	filter.OutstandingOnly = req.OutstandingOnly
	filter.IncludeVoided = req.IncludeVoided
	if req.Kind != "" {
		kind := ledger.LedgerKind(req.Kind)
		filter.Kind = &kind
	}
	if req.Status != "" {
		status := ledger.InvoiceStatus(req.Status)
		filter.Status = &status
	}
	if req.CounterpartyID != "" {
		counterpartyID, err := uuid.Parse(req.CounterpartyID)
		if err != nil {
			h.BadRequest(c, "Invalid counterparty ID format")
			return
		}
		filter.CounterpartyID = &counterpartyID
	}

	page, err := h.postings.ListInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, 0, len(page.Items))
	for _, inv := range page.Items {
		responses = append(responses, toInvoiceResponse(inv))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// ListOutstanding handles GET /ledger/invoices/outstanding, returning the
// unsettled invoices of one counterparty oldest due date first
func (h *LedgerHandler) ListOutstanding(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req OutstandingInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	invoices, err := h.knockoffs.ListOutstanding(c.Request.Context(), tenantID, ledger.LedgerKind(req.Kind), counterpartyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, toInvoiceResponse(inv))
	}
	h.Success(c, responses)
}

func toInvoiceResponse(inv *ledger.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:               inv.ID.String(),
		Kind:             string(inv.Kind),
		SourceDocumentID: inv.SourceDocumentID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		InvoiceDate:      inv.InvoiceDate,
		DueDate:          inv.DueDate,
		Counterparty: CounterpartyResponse{
			Kind: string(inv.Counterparty.Kind),
			ID:   inv.Counterparty.ID.String(),
			Code: inv.Counterparty.Code,
			Name: inv.Counterparty.Name,
		},
		CurrencyCode:      string(inv.CurrencyCode),
		NetTotal:          inv.NetTotal.InexactFloat64(),
		PaidAmount:        inv.PaidAmount.InexactFloat64(),
		OutstandingAmount: inv.OutstandingAmount.InexactFloat64(),
		Status:            string(inv.Status),
		Reference:         inv.Reference,
		IsVoid:            inv.IsVoid,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
}
