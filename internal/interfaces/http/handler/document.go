package handler

import (
	"time"

	chainapp "github.com/docflow/backend/internal/application/chain"
	"github.com/docflow/backend/internal/domain/document"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentHandler handles document-chain API endpoints
type DocumentHandler struct {
	BaseHandler
	transfers *chainapp.TransferService
	voids     *chainapp.VoidService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(transfers *chainapp.TransferService, voids *chainapp.VoidService) *DocumentHandler {
	return &DocumentHandler{
		transfers: transfers,
		voids:     voids,
	}
}

// RegisterRoutes registers document routes on the API group
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:id", h.GetByID)
		docs.PUT("/:id", h.Update)
		docs.POST("/:id/transfer", h.Transfer)
		docs.POST("/:id/void", h.Void)
	}
}

// CreateDocumentRequest is the request body for creating a document
type CreateDocumentRequest struct {
	DocType        string              `json:"doc_type" binding:"required"`
	CounterpartyID string              `json:"counterparty_id" binding:"required,uuid"`
	DocumentDate   time.Time           `json:"document_date" binding:"required"`
	Reference      string              `json:"reference" binding:"max=100"`
	Remark         string              `json:"remark" binding:"max=500"`
	ExchangeRate   *float64            `json:"exchange_rate" binding:"omitempty,gt=0"`
	// lines, items, and details are aliases; clients of the system this one
	// replaces used all three
	Lines   []DocumentLineInput `json:"lines" binding:"omitempty,dive"`
	Items   []DocumentLineInput `json:"items" binding:"omitempty,dive"`
	Details []DocumentLineInput `json:"details" binding:"omitempty,dive"`
}

// lineInputs returns the canonical line slice, whichever alias carried it
func (r *CreateDocumentRequest) lineInputs() []DocumentLineInput {
	if len(r.Lines) > 0 {
		return r.Lines
	}
	if len(r.Items) > 0 {
		return r.Items
	}
	return r.Details
}

// DocumentLineInput is one requested line
type DocumentLineInput struct {
	ProductID       string  `json:"product_id" binding:"required,uuid"`
	ProductCode     string  `json:"product_code" binding:"max=50"`
	ProductName     string  `json:"product_name" binding:"required,min=1,max=200"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" binding:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100"`
	TaxPercent      float64 `json:"tax_percent" binding:"gte=0"`
}

// UpdateDocumentRequest is the request body for updating a document
type UpdateDocumentRequest struct {
	DocumentDate *time.Time          `json:"document_date"`
	Reference    *string             `json:"reference" binding:"omitempty,max=100"`
	Remark       *string             `json:"remark" binding:"omitempty,max=500"`
	Lines        []DocumentLineInput `json:"lines" binding:"omitempty,min=1,dive"`
	Items        []DocumentLineInput `json:"items" binding:"omitempty,min=1,dive"`
	Details      []DocumentLineInput `json:"details" binding:"omitempty,min=1,dive"`
}

// lineInputs returns the canonical line slice, whichever alias carried it;
// empty means the update leaves the lines alone
func (r *UpdateDocumentRequest) lineInputs() []DocumentLineInput {
	if len(r.Lines) > 0 {
		return r.Lines
	}
	if len(r.Items) > 0 {
		return r.Items
	}
	return r.Details
}

// TransferRequest is the request body for transferring a document to the
// next stage of its chain
type TransferRequest struct {
	TargetType   string              `json:"target_type" binding:"required"`
	DocumentDate time.Time           `json:"document_date"`
	// Lines empty means transfer everything outstanding
	Lines []TransferLineInput `json:"lines" binding:"omitempty,dive"`
}

// TransferLineInput requests moving a quantity from one source line
type TransferLineInput struct {
	LineID   string  `json:"line_id" binding:"required,uuid"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// VoidDocumentRequest is the request body for voiding a document
type VoidDocumentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListDocumentsRequest carries the document list filters
type ListDocumentsRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search         string `form:"search"`
	DocType        string `form:"doc_type"`
	Status         string `form:"status"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	IncludeVoided  bool   `form:"include_voided"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID              string                 `json:"id"`
	DocType         string                 `json:"doc_type"`
	DocumentNumber  string                 `json:"document_number"`
	DocumentDate    time.Time              `json:"document_date"`
	Counterparty    CounterpartyResponse   `json:"counterparty"`
	CurrencyCode    string                 `json:"currency_code"`
	ExchangeRate    float64                `json:"exchange_rate"`
	Subtotal        float64                `json:"subtotal"`
	DiscountAmount  float64                `json:"discount_amount"`
	TaxAmount       float64                `json:"tax_amount"`
	NetTotal        float64                `json:"net_total"`
	Status          string                 `json:"status"`
	TransferStatus  string                 `json:"transfer_status"`
	SourceType      *string                `json:"source_type,omitempty"`
	SourceID        *string                `json:"source_id,omitempty"`
	IsPosted        bool                   `json:"is_posted"`
	LedgerInvoiceID *string                `json:"ledger_invoice_id,omitempty"`
	IsVoid          bool                   `json:"is_void"`
	VoidReason      string                 `json:"void_reason,omitempty"`
	Reference       string                 `json:"reference,omitempty"`
	Remark          string                 `json:"remark,omitempty"`
	Lines           []DocumentLineResponse `json:"lines"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// CounterpartyResponse is the counterparty snapshot in responses
type CounterpartyResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DocumentLineResponse represents a document line in API responses
type DocumentLineResponse struct {
	ID              string  `json:"id"`
	SourceLineID    *string `json:"source_line_id,omitempty"`
	ProductID       string  `json:"product_id"`
	ProductCode     string  `json:"product_code"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
	LineTotal       float64 `json:"line_total"`
	TransferredQty  float64 `json:"transferred_qty"`
	OutstandingQty  float64 `json:"outstanding_qty"`
}

// VoidDocumentResponse reports what the void handler did
type VoidDocumentResponse struct {
	HardDeleted   bool     `json:"hard_deleted"`
	ReversedSteps []string `json:"reversed_steps"`
}

// Create handles POST /documents
func (h *DocumentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	cmd := chainapp.CreateDocumentCommand{
		TenantID:       tenantID,
		DocType:        document.DocumentType(req.DocType),
		CounterpartyID: counterpartyID,
		DocumentDate:   req.DocumentDate,
		Reference:      req.Reference,
		Remark:         req.Remark,
	}
	if req.ExchangeRate != nil {
		rate := decimal.NewFromFloat(*req.ExchangeRate)
		cmd.ExchangeRate = &rate
	}
	lines := req.lineInputs()
	if len(lines) == 0 {
		h.BadRequest(c, "Document must have at least one line")
		return
	}
	cmd.Lines, err = toLineCommands(lines)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.transfers.CreateDocument(c.Request.Context(), cmd, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDocumentResponse(doc))
}

// GetByID handles GET /documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.transfers.GetDocument(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc))
}

// List handles GET /documents
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := document.DocumentFilter{}
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	filter.IncludeVoided = req.IncludeVoided
	if req.DocType != "" {
		docType := document.DocumentType(req.DocType)
		filter.DocType = &docType
	}
	if req.Status != "" {
		status := document.DocumentStatus(req.Status)
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

	page, err := h.transfers.ListDocuments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]DocumentResponse, 0, len(page.Items))
	for _, doc := range page.Items {
		responses = append(responses, toDocumentResponse(doc))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := chainapp.UpdateDocumentCommand{
		TenantID:     tenantID,
		DocumentID:   id,
		DocumentDate: req.DocumentDate,
		Reference:    req.Reference,
		Remark:       req.Remark,
	}
	if lines := req.lineInputs(); len(lines) > 0 {
		cmd.Lines, err = toLineCommands(lines)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	doc, err := h.transfers.UpdateDocument(c.Request.Context(), cmd, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc))
}

// Transfer handles POST /documents/:id/transfer
func (h *DocumentHandler) Transfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := chainapp.TransferCommand{
		TenantID:     tenantID,
		SourceID:     sourceID,
		TargetType:   document.DocumentType(req.TargetType),
		DocumentDate: req.DocumentDate,
	}
	for _, line := range req.Lines {
		lineID, err := uuid.Parse(line.LineID)
		if err != nil {
			h.BadRequest(c, "Invalid line ID format")
			return
		}
		cmd.Lines = append(cmd.Lines, chainapp.LineTransferCommand{
			LineID:   lineID,
			Quantity: decimal.NewFromFloat(line.Quantity),
		})
	}

	target, err := h.transfers.Transfer(c.Request.Context(), cmd, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDocumentResponse(target))
}

// Void handles POST /documents/:id/void
func (h *DocumentHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.voids.Void(c.Request.Context(), chainapp.VoidCommand{
		TenantID:   tenantID,
		DocumentID: id,
		Reason:     req.Reason,
		ActorID:    getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VoidDocumentResponse{
		HardDeleted:   result.HardDeleted,
		ReversedSteps: result.ReversedSteps,
	})
}

func toLineCommands(inputs []DocumentLineInput) ([]chainapp.LineCommand, error) {
	lines := make([]chainapp.LineCommand, 0, len(inputs))
	for _, input := range inputs {
		productID, err := uuid.Parse(input.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, chainapp.LineCommand{
			ProductID:       productID,
			ProductCode:     input.ProductCode,
			ProductName:     input.ProductName,
			Quantity:        decimal.NewFromFloat(input.Quantity),
			UnitPrice:       decimal.NewFromFloat(input.UnitPrice),
			DiscountPercent: decimal.NewFromFloat(input.DiscountPercent),
			TaxPercent:      decimal.NewFromFloat(input.TaxPercent),
		})
	}
	return lines, nil
}

func toDocumentResponse(doc *document.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:             doc.ID.String(),
		DocType:        string(doc.DocType),
		DocumentNumber: doc.DocumentNumber,
		DocumentDate:   doc.DocumentDate,
		Counterparty: CounterpartyResponse{
			Kind: string(doc.Counterparty.Kind),
			ID:   doc.Counterparty.ID.String(),
			Code: doc.Counterparty.Code,
			Name: doc.Counterparty.Name,
		},
		CurrencyCode:   string(doc.CurrencyCode),
		ExchangeRate:   doc.ExchangeRate.InexactFloat64(),
		Subtotal:       doc.Subtotal.InexactFloat64(),
		DiscountAmount: doc.DiscountAmount.InexactFloat64(),
		TaxAmount:      doc.TaxAmount.InexactFloat64(),
		NetTotal:       doc.NetTotal.InexactFloat64(),
		Status:         string(doc.Status),
		TransferStatus: string(doc.TransferStatus),
		IsPosted:       doc.IsPosted,
		IsVoid:         doc.IsVoid,
		VoidReason:     doc.VoidReason,
		Reference:      doc.Reference,
		Remark:         doc.Remark,
		Lines:          make([]DocumentLineResponse, 0, len(doc.Lines)),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		Version:        doc.Version,
	}
	if doc.SourceType != nil {
		sourceType := string(*doc.SourceType)
		resp.SourceType = &sourceType
	}
	if doc.SourceID != nil {
		sourceID := doc.SourceID.String()
		resp.SourceID = &sourceID
	}
	if doc.LedgerInvoiceID != nil {
		ledgerID := doc.LedgerInvoiceID.String()
		resp.LedgerInvoiceID = &ledgerID
	}
	for _, line := range doc.Lines {
		lineResp := DocumentLineResponse{
			ID:              line.ID.String(),
			ProductID:       line.ProductID.String(),
			ProductCode:     line.ProductCode,
			ProductName:     line.ProductName,
			Quantity:        line.Quantity.InexactFloat64(),
			UnitPrice:       line.UnitPrice.InexactFloat64(),
			DiscountPercent: line.DiscountPercent.InexactFloat64(),
			TaxPercent:      line.TaxPercent.InexactFloat64(),
			LineTotal:       line.LineTotal.InexactFloat64(),
			TransferredQty:  line.TransferredQty.InexactFloat64(),
			OutstandingQty:  line.OutstandingQty.InexactFloat64(),
		}
		if line.SourceLineID != nil {
			sourceLineID := line.SourceLineID.String()
			lineResp.SourceLineID = &sourceLineID
		}
		resp.Lines = append(resp.Lines, lineResp)
	}
	return resp
}
