package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chainapp "github.com/docflow/backend/internal/application/chain"
	ledgerapp "github.com/docflow/backend/internal/application/ledger"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/docflow/backend/internal/infrastructure/cache"
	"github.com/docflow/backend/internal/infrastructure/persistence"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/docflow/backend/internal/interfaces/http/middleware"
	"github.com/docflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testAPI wires the full stack against an in-memory database so requests
// exercise handlers, services and repositories together.
type testAPI struct {
	engine   *gin.Engine
	tenantID uuid.UUID
	db       *persistence.Database
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	docs := persistence.NewGormDocumentRepository(db.DB)
	invoices := persistence.NewGormLedgerInvoiceRepository(db.DB)
	payments := persistence.NewGormPaymentRepository(db.DB)
	docNumbers := persistence.NewGormSequenceRepository(db.DB)
	paymentNumbers := persistence.NewGormPaymentSequenceRepository(db.DB)
	counterparties := persistence.NewGormCounterpartyRepository(db.DB)
	stock := persistence.NewGormStockMovementRepository(db.DB)
	audit := persistence.NewGormAuditSink(db.DB, logger)
	uow := persistence.NewGormUnitOfWork(db.DB)
	idempotency := cache.NewInMemoryIdempotencyStore(0)

	postings := ledgerapp.NewPostingService(invoices, payments, logger)
	knockoffs := ledgerapp.NewKnockoffService(payments, invoices, paymentNumbers, counterparties, idempotency, uow, audit, logger)
	transfers := chainapp.NewTransferService(docs, docNumbers, counterparties, postings, stock, uow, audit, logger)
	voids := chainapp.NewVoidService(docs, postings, stock, uow, audit, logger)

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.TenantMiddleware())
	router.NewRouter(engine).
		Register(NewDocumentHandler(transfers, voids)).
		Register(NewLedgerHandler(postings, knockoffs)).
		Register(NewPaymentHandler(knockoffs)).
		Setup()

	api := &testAPI{engine: engine, tenantID: uuid.New(), db: db}
	return api
}

func (a *testAPI) seedCustomer(t *testing.T) uuid.UUID {
	t.Helper()
	now := time.Now()
	model := &models.CounterpartyModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:       a.tenantID,
		Kind:           string(valueobject.KindCustomer),
		Code:           "CUST-001",
		Name:           "Acme Trading",
		CurrencyCode:   "USD",
		CreditTermDays: 30,
		IsActive:       true,
	}
	require.NoError(t, a.db.DB.Create(model).Error)
	return model.ID
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, a.tenantID.String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got %s", w.Body.String())
	return envelope.Data
}

func createSalesOrderBody(customerID uuid.UUID) map[string]any {
	return map[string]any{
		"doc_type":        "SALES_ORDER",
		"counterparty_id": customerID.String(),
		"document_date":   time.Now().Format(time.RFC3339),
		"lines": []map[string]any{
			{
				"product_id":   uuid.NewString(),
				"product_code": "SKU-100",
				"product_name": "Widget",
				"quantity":     10,
				"unit_price":   100,
			},
		},
	}
}

func TestAPI_CreateDocument(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	w := api.do(t, http.MethodPost, "/api/v1/documents", createSalesOrderBody(customerID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "SALES_ORDER", data["doc_type"])
	assert.Equal(t, "SO-000001", data["document_number"])
	assert.Equal(t, "OPEN", data["status"])
	assert.EqualValues(t, 1000, data["net_total"])
}

func TestAPI_CreateDocument_ItemsAlias(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	body := createSalesOrderBody(customerID)
	body["items"] = body["lines"]
	delete(body, "lines")

	w := api.do(t, http.MethodPost, "/api/v1/documents", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 1000, decodeData(t, w)["net_total"])
}

func TestAPI_CreateDocument_NoLines(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	body := createSalesOrderBody(customerID)
	delete(body, "lines")

	w := api.do(t, http.MethodPost, "/api/v1/documents", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_CreateDocument_MissingTenant(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	payload, err := json.Marshal(createSalesOrderBody(customerID))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_TransferAndPostToLedger(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	w := api.do(t, http.MethodPost, "/api/v1/documents", createSalesOrderBody(customerID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := decodeData(t, w)["id"].(string)

	// order -> invoice posts to the ledger in the same transaction
	w = api.do(t, http.MethodPost, "/api/v1/documents/"+orderID+"/transfer", map[string]any{
		"target_type":   "SALES_INVOICE",
		"document_date": time.Now().Format(time.RFC3339),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoice := decodeData(t, w)
	assert.Equal(t, "SALES_INVOICE", invoice["doc_type"])
	assert.Equal(t, true, invoice["is_posted"])
	require.NotNil(t, invoice["ledger_invoice_id"])

	// the derived AR invoice is visible with the full amount outstanding
	w = api.do(t, http.MethodGet, "/api/v1/ledger/invoices/"+invoice["ledger_invoice_id"].(string), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ledgerInvoice := decodeData(t, w)
	assert.Equal(t, "AR", ledgerInvoice["kind"])
	assert.EqualValues(t, 1000, ledgerInvoice["outstanding_amount"])

	// the source order is now fully transferred
	w = api.do(t, http.MethodGet, "/api/v1/documents/"+orderID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TRANSFERRED", decodeData(t, w)["status"])
}

func TestAPI_PaymentKnockoffAndVoid(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	w := api.do(t, http.MethodPost, "/api/v1/documents", createSalesOrderBody(customerID), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["id"].(string)

	w = api.do(t, http.MethodPost, "/api/v1/documents/"+orderID+"/transfer", map[string]any{
		"target_type":   "SALES_INVOICE",
		"document_date": time.Now().Format(time.RFC3339),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	ledgerInvoiceID := decodeData(t, w)["ledger_invoice_id"].(string)

	// auto-allocated receipt knocks 600 off the invoice
	w = api.do(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"kind":            "AR",
		"counterparty_id": customerID.String(),
		"payment_date":    time.Now().Format(time.RFC3339),
		"amount":          600,
		"method":          "BANK_TRANSFER",
		"auto_allocate":   true,
	}, map[string]string{IdempotencyKeyHeader: "pay-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decodeData(t, w)
	paymentID := payment["id"].(string)
	assert.Equal(t, "RCP-000001", payment["payment_number"])
	knockoffs := payment["knockoffs"].([]any)
	require.Len(t, knockoffs, 1)
	knockoff := knockoffs[0].(map[string]any)
	assert.EqualValues(t, 1000, knockoff["outstanding_before"])
	assert.EqualValues(t, 600, knockoff["knockoff_amount"])
	assert.EqualValues(t, 400, knockoff["outstanding_after"])

	w = api.do(t, http.MethodGet, "/api/v1/ledger/invoices/"+ledgerInvoiceID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 400, decodeData(t, w)["outstanding_amount"])

	// a retried submission with the same key returns the same payment
	w = api.do(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"kind":            "AR",
		"counterparty_id": customerID.String(),
		"payment_date":    time.Now().Format(time.RFC3339),
		"amount":          600,
		"method":          "BANK_TRANSFER",
		"auto_allocate":   true,
	}, map[string]string{IdempotencyKeyHeader: "pay-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, paymentID, decodeData(t, w)["id"])

	// voiding the payment restores the outstanding amount
	w = api.do(t, http.MethodPost, "/api/v1/payments/"+paymentID+"/void", map[string]any{
		"reason": "bounced cheque",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "VOID", decodeData(t, w)["status"])

	w = api.do(t, http.MethodGet, "/api/v1/ledger/invoices/"+ledgerInvoiceID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1000, decodeData(t, w)["outstanding_amount"])
}

func TestAPI_VoidBlockedByDownstream(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	w := api.do(t, http.MethodPost, "/api/v1/documents", createSalesOrderBody(customerID), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["id"].(string)

	w = api.do(t, http.MethodPost, "/api/v1/documents/"+orderID+"/transfer", map[string]any{
		"target_type":   "DELIVERY_ORDER",
		"document_date": time.Now().Format(time.RFC3339),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	deliveryID := decodeData(t, w)["id"].(string)

	// the order has a live delivery downstream, so it cannot be voided
	w = api.do(t, http.MethodPost, "/api/v1/documents/"+orderID+"/void", map[string]any{
		"reason": "customer cancelled",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// voiding the delivery first restores the order, then the void succeeds
	w = api.do(t, http.MethodPost, "/api/v1/documents/"+deliveryID+"/void", map[string]any{
		"reason": "customer cancelled",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/v1/documents/"+orderID+"/void", map[string]any{
		"reason": "customer cancelled",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	voidResult := decodeData(t, w)
	assert.Equal(t, true, voidResult["hard_deleted"])
}

func TestAPI_ListDocumentsPagination(t *testing.T) {
	api := newTestAPI(t)
	customerID := api.seedCustomer(t)

	for i := 0; i < 3; i++ {
		w := api.do(t, http.MethodPost, "/api/v1/documents", createSalesOrderBody(customerID), nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(t, http.MethodGet, "/api/v1/documents?doc_type=SALES_ORDER&page=1&page_size=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Success bool `json:"success"`
		Data    []map[string]any
		Meta    struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.EqualValues(t, 3, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}
