package document

import (
	"fmt"
	"time"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStatus represents the lifecycle status of a commercial document
type DocumentStatus string

const (
	StatusOpen        DocumentStatus = "OPEN"
	StatusPartial     DocumentStatus = "PARTIAL"
	StatusTransferred DocumentStatus = "TRANSFERRED"
	StatusPosted      DocumentStatus = "POSTED"
	StatusVoid        DocumentStatus = "VOID"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusPartial, StatusTransferred, StatusPosted, StatusVoid:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// TransferStatus tracks how much of a document's quantity has moved downstream
type TransferStatus string

const (
	TransferStatusNone        TransferStatus = "NONE"
	TransferStatusPartial     TransferStatus = "PARTIAL"
	TransferStatusTransferred TransferStatus = "TRANSFERRED"
)

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// DocumentLine is one line of a Document. OutstandingQty always equals
// Quantity minus TransferredQty and never goes negative.
type DocumentLine struct {
	ID              uuid.UUID       `json:"id"`
	DocumentID      uuid.UUID       `json:"document_id"`
	SourceLineID    *uuid.UUID      `json:"source_line_id,omitempty"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	TransferredQty  decimal.Decimal `json:"transferred_qty"`
	OutstandingQty  decimal.Decimal `json:"outstanding_qty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LineInput carries the caller-provided values for one document line
type LineInput struct {
	ProductID       uuid.UUID
	ProductCode     string
	ProductName     string
	Quantity        decimal.Decimal
	UnitPrice       valueobject.Money
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// LineTransfer requests moving a quantity from one source line into a target
// document. A zero LineID with transfers omitted means "everything outstanding".
type LineTransfer struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// grossAmount returns quantity * unit price before discount and tax
func (l *DocumentLine) grossAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// discountAmount returns the per-line discount value
func (l *DocumentLine) discountAmount() decimal.Decimal {
	return l.grossAmount().Mul(l.DiscountPercent).Div(decimal.NewFromInt(100))
}

// taxAmount returns the tax computed on the discounted amount
func (l *DocumentLine) taxAmount() decimal.Decimal {
	return l.grossAmount().Sub(l.discountAmount()).Mul(l.TaxPercent).Div(decimal.NewFromInt(100))
}

// recalc refreshes LineTotal and OutstandingQty from the base fields
func (l *DocumentLine) recalc() {
	l.LineTotal = l.grossAmount().Sub(l.discountAmount()).Add(l.taxAmount()).Round(2)
	l.OutstandingQty = l.Quantity.Sub(l.TransferredQty)
	if l.OutstandingQty.IsNegative() {
		l.OutstandingQty = decimal.Zero
	}
	l.UpdatedAt = time.Now()
}

// IsFullyTransferred returns true when nothing remains outstanding on the line
func (l *DocumentLine) IsFullyTransferred() bool {
	return l.OutstandingQty.IsZero()
}

// Document is a commercial document aggregate root: one header plus its
// lines, a stage in a purchase or sales chain.
type Document struct {
	shared.TenantAggregateRoot
	DocType         DocumentType                `json:"doc_type"`
	DocumentNumber  string                      `json:"document_number"`
	DocumentDate    time.Time                   `json:"document_date"`
	Counterparty    valueobject.CounterpartyRef `json:"counterparty"`
	CurrencyCode    valueobject.Currency        `json:"currency_code"`
	ExchangeRate    decimal.Decimal             `json:"exchange_rate"`
	Subtotal        decimal.Decimal             `json:"subtotal"`
	DiscountAmount  decimal.Decimal             `json:"discount_amount"`
	TaxAmount       decimal.Decimal             `json:"tax_amount"`
	NetTotal        decimal.Decimal             `json:"net_total"`
	Status          DocumentStatus              `json:"status"`
	TransferStatus  TransferStatus              `json:"transfer_status"`
	SourceType      *DocumentType               `json:"source_type,omitempty"`
	SourceID        *uuid.UUID                  `json:"source_id,omitempty"`
	IsPosted        bool                        `json:"is_posted"`
	LedgerInvoiceID *uuid.UUID                  `json:"ledger_invoice_id,omitempty"`
	IsVoid          bool                        `json:"is_void"`
	VoidedAt        *time.Time                  `json:"voided_at,omitempty"`
	VoidReason      string                      `json:"void_reason,omitempty"`
	Reference       string                      `json:"reference,omitempty"`
	Remark          string                      `json:"remark,omitempty"`
	Lines           []DocumentLine              `json:"lines"`
}

// NewDocument creates a new commercial document of the given type
func NewDocument(
	tenantID uuid.UUID,
	docType DocumentType,
	documentNumber string,
	documentDate time.Time,
	counterparty valueobject.CounterpartyRef,
) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_TYPE", "Document type is not valid")
	}
	if documentNumber == "" {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if len(documentNumber) > 50 {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_NUMBER", "Document number cannot exceed 50 characters")
	}
	if documentDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_DATE", "Document date is required")
	}
	if counterparty.IsZero() {
		return nil, shared.NewValidationError("INVALID_COUNTERPARTY", "Counterparty is required")
	}
	if counterparty.Kind != docType.CounterpartyKind() {
		return nil, shared.NewValidationError("COUNTERPARTY_KIND_MISMATCH",
			fmt.Sprintf("%s documents require a %s counterparty", docType.Domain(), docType.CounterpartyKind()))
	}

	d := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocType:             docType,
		DocumentNumber:      documentNumber,
		DocumentDate:        documentDate,
		Counterparty:        counterparty,
		CurrencyCode:        counterparty.Currency,
		ExchangeRate:        decimal.NewFromInt(1),
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		NetTotal:            decimal.Zero,
		Status:              StatusOpen,
		TransferStatus:      TransferStatusNone,
		Lines:               make([]DocumentLine, 0),
	}

	d.AddDomainEvent(NewDocumentCreatedEvent(d))

	return d, nil
}

// SetExchangeRate overrides the default 1:1 exchange rate
func (d *Document) SetExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	d.ExchangeRate = rate
	d.Touch()
	return nil
}

// SetReference sets an external reference on the document
func (d *Document) SetReference(reference string) {
	d.Reference = reference
	d.Touch()
}

// SetRemark sets the remark
func (d *Document) SetRemark(remark string) {
	d.Remark = remark
	d.Touch()
}

// AddLine appends a new line and recomputes header totals
func (d *Document) AddLine(input LineInput) (*DocumentLine, error) {
	if d.IsVoid {
		return nil, shared.NewStateConflictError("DOCUMENT_VOID", "Cannot modify a voided document")
	}
	if d.TransferStatus != TransferStatusNone {
		return nil, shared.NewStateConflictError("DOCUMENT_TRANSFERRED", "Cannot add lines after a transfer has occurred")
	}
	if input.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if input.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if input.UnitPrice.Currency() != d.CurrencyCode {
		return nil, shared.NewValidationError("CURRENCY_MISMATCH",
			fmt.Sprintf("Line currency %s does not match document currency %s", input.UnitPrice.Currency(), d.CurrencyCode))
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if input.TaxPercent.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TAX", "Tax percent cannot be negative")
	}

	now := time.Now()
	line := DocumentLine{
		ID:              uuid.New(),
		DocumentID:      d.ID,
		ProductID:       input.ProductID,
		ProductCode:     input.ProductCode,
		ProductName:     input.ProductName,
		Quantity:        input.Quantity,
		UnitPrice:       input.UnitPrice.Amount(),
		DiscountPercent: input.DiscountPercent,
		TaxPercent:      input.TaxPercent,
		TransferredQty:  decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	line.recalc()

	d.Lines = append(d.Lines, line)
	d.recalcTotals()
	d.Touch()

	return &d.Lines[len(d.Lines)-1], nil
}

// ReplaceLines swaps the whole line set for an edit. Only documents with no
// transfer activity can be re-lined; posted documents stay editable so the
// posting bridge can sync the linked ledger invoice afterwards.
func (d *Document) ReplaceLines(inputs []LineInput) error {
	if d.IsVoid {
		return shared.NewStateConflictError("DOCUMENT_VOID", "Cannot modify a voided document")
	}
	if d.TransferStatus != TransferStatusNone {
		return shared.NewStateConflictError("DOCUMENT_TRANSFERRED", "Cannot edit lines after a transfer has occurred")
	}
	if len(inputs) == 0 {
		return shared.NewValidationError("NO_LINES", "Document must have at least one line")
	}

	previous := d.Lines
	d.Lines = make([]DocumentLine, 0, len(inputs))
	for _, input := range inputs {
		if _, err := d.AddLine(input); err != nil {
			d.Lines = previous
			d.recalcTotals()
			return err
		}
	}

	d.AddDomainEvent(NewDocumentUpdatedEvent(d))
	return nil
}

// recalcTotals refreshes header totals from the lines
func (d *Document) recalcTotals() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	for i := range d.Lines {
		subtotal = subtotal.Add(d.Lines[i].grossAmount())
		discount = discount.Add(d.Lines[i].discountAmount())
		tax = tax.Add(d.Lines[i].taxAmount())
	}
	d.Subtotal = subtotal.Round(2)
	d.DiscountAmount = discount.Round(2)
	d.TaxAmount = tax.Round(2)
	d.NetTotal = subtotal.Sub(discount).Add(tax).Round(2)
}

// findLine returns the line with the given ID, or nil
func (d *Document) findLine(lineID uuid.UUID) *DocumentLine {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return &d.Lines[i]
		}
	}
	return nil
}

// resolveTransfers expands an optional transfer request into the concrete
// per-line quantities to move. An empty request means every line's full
// outstanding quantity; zero-quantity entries are dropped.
func (d *Document) resolveTransfers(transfers []LineTransfer) ([]LineTransfer, error) {
	resolved := make([]LineTransfer, 0, len(d.Lines))

	if len(transfers) == 0 {
		for i := range d.Lines {
			if d.Lines[i].OutstandingQty.IsPositive() {
				resolved = append(resolved, LineTransfer{LineID: d.Lines[i].ID, Quantity: d.Lines[i].OutstandingQty})
			}
		}
		return resolved, nil
	}

	for _, t := range transfers {
		if t.Quantity.IsZero() {
			continue
		}
		if t.Quantity.IsNegative() {
			return nil, shared.NewValidationError("INVALID_TRANSFER_QUANTITY", "Transfer quantity cannot be negative")
		}
		line := d.findLine(t.LineID)
		if line == nil {
			return nil, shared.NewNotFoundError("LINE_NOT_FOUND", fmt.Sprintf("Document line %s not found", t.LineID))
		}
		if t.Quantity.GreaterThan(line.OutstandingQty) {
			return nil, shared.NewReconciliationError("TRANSFER_EXCEEDS_OUTSTANDING",
				fmt.Sprintf("Transfer quantity %s exceeds outstanding quantity %s on line %s",
					t.Quantity.String(), line.OutstandingQty.String(), line.ID))
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// TransferTo converts this document (or a subset of its lines) into a new
// document of a later stage. Source lines are decremented and the target
// document carries the transferred quantities as both quantity and
// outstanding quantity. Both sides of the mutation belong to the same unit
// of work at the persistence boundary.
func (d *Document) TransferTo(targetType DocumentType, targetNumber string, documentDate time.Time, transfers []LineTransfer) (*Document, error) {
	if d.IsVoid {
		return nil, shared.NewStateConflictError("DOCUMENT_VOID", "Cannot transfer a voided document")
	}
	if d.TransferStatus == TransferStatusTransferred {
		return nil, shared.NewStateConflictError("DOCUMENT_FULLY_TRANSFERRED", "Document already fully transferred")
	}
	if !d.DocType.CanTransferTo(targetType) {
		return nil, shared.NewValidationError("INVALID_TARGET_TYPE",
			fmt.Sprintf("Cannot transfer %s to %s", d.DocType, targetType))
	}

	resolved, err := d.resolveTransfers(transfers)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, shared.NewValidationError("NO_LINES_TO_TRANSFER", "No lines to transfer")
	}

	// an omitted date means the transfer happens now; a zero date would
	// produce a document NewDocument itself rejects
	if documentDate.IsZero() {
		documentDate = time.Now()
	}

	target := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(d.TenantID),
		DocType:             targetType,
		DocumentNumber:      targetNumber,
		DocumentDate:        documentDate,
		Counterparty:        d.Counterparty,
		CurrencyCode:        d.CurrencyCode,
		ExchangeRate:        d.ExchangeRate,
		Status:              StatusOpen,
		TransferStatus:      TransferStatusNone,
		Lines:               make([]DocumentLine, 0, len(resolved)),
	}
	sourceType := d.DocType
	sourceID := d.ID
	target.SourceType = &sourceType
	target.SourceID = &sourceID

	now := time.Now()
	for _, t := range resolved {
		line := d.findLine(t.LineID)

		sourceLineID := line.ID
		targetLine := DocumentLine{
			ID:              uuid.New(),
			DocumentID:      target.ID,
			SourceLineID:    &sourceLineID,
			ProductID:       line.ProductID,
			ProductCode:     line.ProductCode,
			ProductName:     line.ProductName,
			Quantity:        t.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			TaxPercent:      line.TaxPercent,
			TransferredQty:  decimal.Zero,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		targetLine.recalc()
		target.Lines = append(target.Lines, targetLine)

		line.TransferredQty = line.TransferredQty.Add(t.Quantity)
		line.recalc()
	}
	target.recalcTotals()
	target.AddDomainEvent(NewDocumentCreatedEvent(target))

	d.refreshTransferStatus()
	d.Touch()
	d.AddDomainEvent(NewDocumentTransferredEvent(d, target))

	return target, nil
}

// RestoreTransferredQuantities reverses the per-line effect of a transfer
// when the target document is voided: each target line gives back its full
// quantity to the source line it came from.
func (d *Document) RestoreTransferredQuantities(targetLines []DocumentLine) error {
	if d.IsVoid {
		return shared.NewStateConflictError("DOCUMENT_VOID", "Cannot restore quantities on a voided document")
	}

	for i := range targetLines {
		if targetLines[i].SourceLineID == nil {
			continue
		}
		line := d.findLine(*targetLines[i].SourceLineID)
		if line == nil {
			return shared.NewNotFoundError("LINE_NOT_FOUND",
				fmt.Sprintf("Source line %s not found", *targetLines[i].SourceLineID))
		}
		line.TransferredQty = line.TransferredQty.Sub(targetLines[i].Quantity)
		if line.TransferredQty.IsNegative() {
			line.TransferredQty = decimal.Zero
		}
		line.recalc()
	}

	wasFullyTransferred := d.Status == StatusTransferred
	d.refreshTransferStatus()
	if wasFullyTransferred && d.TransferStatus != TransferStatusTransferred {
		d.Status = StatusOpen
	}
	d.Touch()

	return nil
}

// refreshTransferStatus recomputes TransferStatus from the lines and moves
// Status to TRANSFERRED only on full transfer. Partial transfers leave the
// document status untouched so it stays actionable.
func (d *Document) refreshTransferStatus() {
	anyTransferred := false
	allTransferred := true
	for i := range d.Lines {
		if d.Lines[i].TransferredQty.IsPositive() {
			anyTransferred = true
		}
		if d.Lines[i].OutstandingQty.IsPositive() {
			allTransferred = false
		}
	}

	switch {
	case anyTransferred && allTransferred:
		d.TransferStatus = TransferStatusTransferred
		if d.Status != StatusPosted && d.Status != StatusVoid {
			d.Status = StatusTransferred
		}
	case anyTransferred:
		d.TransferStatus = TransferStatusPartial
	default:
		d.TransferStatus = TransferStatusNone
	}
}

// MarkPosted records the link to the ledger invoice derived from this
// document. Fails if the document is already posted.
func (d *Document) MarkPosted(ledgerInvoiceID uuid.UUID) error {
	if d.IsVoid {
		return shared.NewStateConflictError("DOCUMENT_VOID", "Cannot post a voided document")
	}
	if d.IsPosted {
		return shared.NewStateConflictError("DOCUMENT_ALREADY_POSTED", "Document is already posted")
	}
	if !d.DocType.IsInvoice() {
		return shared.NewValidationError("NOT_AN_INVOICE", fmt.Sprintf("Document type %s cannot be posted", d.DocType))
	}
	if ledgerInvoiceID == uuid.Nil {
		return shared.NewValidationError("INVALID_LEDGER_INVOICE", "Ledger invoice ID cannot be empty")
	}

	d.IsPosted = true
	d.Status = StatusPosted
	d.LedgerInvoiceID = &ledgerInvoiceID
	d.Touch()
	d.AddDomainEvent(NewDocumentPostedEvent(d))

	return nil
}

// Void marks the document as cancelled. VOID is terminal: no further
// mutation is permitted and the row is kept for history.
func (d *Document) Void(reason string) error {
	if d.IsVoid {
		return shared.NewStateConflictError("DOCUMENT_ALREADY_VOID", "Document already voided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	d.IsVoid = true
	d.Status = StatusVoid
	d.VoidedAt = &now
	d.VoidReason = reason
	d.Touch()
	d.AddDomainEvent(NewDocumentVoidedEvent(d))

	return nil
}

// HasDownstreamEffects reports whether the document has already caused
// financial or quantity effects elsewhere: transfers out, a posting, or a
// physical stock movement. The void handler hard-deletes only effect-free
// documents.
func (d *Document) HasDownstreamEffects() bool {
	if d.IsPosted {
		return true
	}
	if d.TransferStatus != TransferStatusNone {
		return true
	}
	return d.DocType.StockDirection() != StockDirectionNone
}

// HasSource reports whether this document was created by a transfer
func (d *Document) HasSource() bool {
	return d.SourceID != nil
}

// TotalQuantity returns the sum of all line quantities
func (d *Document) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Lines {
		total = total.Add(d.Lines[i].Quantity)
	}
	return total
}

// TotalOutstandingQuantity returns the sum of all outstanding quantities
func (d *Document) TotalOutstandingQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Lines {
		total = total.Add(d.Lines[i].OutstandingQty)
	}
	return total
}

// NetTotalMoney returns the net total as Money in the document currency
func (d *Document) NetTotalMoney() valueobject.Money {
	return valueobject.MustMoney(d.NetTotal, d.CurrencyCode)
}
