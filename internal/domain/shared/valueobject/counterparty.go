package valueobject

import (
	"errors"

	"github.com/google/uuid"
)

// CounterpartyKind distinguishes the two sides the engine is parameterized
// over: vendors feed the purchase chain and accounts payable, customers feed
// the sales chain and accounts receivable.
type CounterpartyKind string

const (
	KindVendor   CounterpartyKind = "VENDOR"
	KindCustomer CounterpartyKind = "CUSTOMER"
)

// IsValid checks if the kind is a valid CounterpartyKind
func (k CounterpartyKind) IsValid() bool {
	return k == KindVendor || k == KindCustomer
}

// String returns the string representation of CounterpartyKind
func (k CounterpartyKind) String() string {
	return string(k)
}

// CounterpartyRef is a point-in-time snapshot of a vendor or customer taken
// when a document is created. Code and name deliberately do not resync with
// the live counterparty record afterwards.
type CounterpartyRef struct {
	Kind           CounterpartyKind `json:"kind"`
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Currency       Currency         `json:"currency"`
	CreditTermDays int              `json:"credit_term_days"`
}

// NewCounterpartyRef creates a validated counterparty snapshot
func NewCounterpartyRef(kind CounterpartyKind, id uuid.UUID, code, name string, currency Currency, creditTermDays int) (CounterpartyRef, error) {
	if !kind.IsValid() {
		return CounterpartyRef{}, errors.New("counterparty kind must be VENDOR or CUSTOMER")
	}
	if id == uuid.Nil {
		return CounterpartyRef{}, errors.New("counterparty ID cannot be empty")
	}
	if name == "" {
		return CounterpartyRef{}, errors.New("counterparty name cannot be empty")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if creditTermDays < 0 {
		return CounterpartyRef{}, errors.New("credit term days cannot be negative")
	}
	return CounterpartyRef{
		Kind:           kind,
		ID:             id,
		Code:           code,
		Name:           name,
		Currency:       currency,
		CreditTermDays: creditTermDays,
	}, nil
}

// IsZero returns true for the zero-value snapshot
func (r CounterpartyRef) IsZero() bool {
	return r.ID == uuid.Nil
}
