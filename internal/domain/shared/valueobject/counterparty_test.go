package valueobject

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpartyKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     CounterpartyKind
		expected bool
	}{
		{KindVendor, true},
		{KindCustomer, true},
		{CounterpartyKind("SUPPLIER"), false},
		{CounterpartyKind(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.IsValid())
		})
	}
}

func TestNewCounterpartyRef(t *testing.T) {
	id := uuid.New()

	ref, err := NewCounterpartyRef(KindVendor, id, "V-001", "Acme Supplies", MYR, 30)
	require.NoError(t, err)
	assert.Equal(t, KindVendor, ref.Kind)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, "V-001", ref.Code)
	assert.Equal(t, "Acme Supplies", ref.Name)
	assert.Equal(t, MYR, ref.Currency)
	assert.Equal(t, 30, ref.CreditTermDays)
	assert.False(t, ref.IsZero())
}

func TestNewCounterpartyRef_Defaults(t *testing.T) {
	ref, err := NewCounterpartyRef(KindCustomer, uuid.New(), "", "Walk-in Customer", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, ref.Currency)
}

func TestNewCounterpartyRef_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (CounterpartyRef, error)
	}{
		{"bad kind", func() (CounterpartyRef, error) {
			return NewCounterpartyRef("BOTH", uuid.New(), "C", "Name", USD, 0)
		}},
		{"nil id", func() (CounterpartyRef, error) {
			return NewCounterpartyRef(KindVendor, uuid.Nil, "C", "Name", USD, 0)
		}},
		{"empty name", func() (CounterpartyRef, error) {
			return NewCounterpartyRef(KindVendor, uuid.New(), "C", "", USD, 0)
		}},
		{"negative credit term", func() (CounterpartyRef, error) {
			return NewCounterpartyRef(KindVendor, uuid.New(), "C", "Name", USD, -1)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			assert.Error(t, err)
		})
	}
}
