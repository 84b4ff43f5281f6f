package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a movement adds to or subtracts from the balance.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Category is the fixed classification set for movements. The wire values are
// the labels the product ships with.
type Category string

const (
	CategoryFood        Category = "Alimentação"
	CategoryBills       Category = "Contas"
	CategoryLeisure     Category = "Lazer"
	CategoryTransport   Category = "Transporte"
	CategoryStudy       Category = "Estudos"
	CategoryInvestment  Category = "Investimento"
	CategoryOther       Category = "Outros"
	CategorySalary      Category = "Salário"
	CategoryExtraIncome Category = "Renda Extra"
)

// Categories returns the full category set in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryBills,
		CategoryLeisure,
		CategoryTransport,
		CategoryStudy,
		CategoryInvestment,
		CategoryOther,
		CategorySalary,
		CategoryExtraIncome,
	}
}

// PaymentMethod is optional and only meaningful on expenses.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "Pix"
	PaymentCredit PaymentMethod = "Crédito"
	PaymentDebit  PaymentMethod = "Débito"
	PaymentOther  PaymentMethod = "Outro"
)

// Transaction is a single recorded money movement. ID, UserID and Date are
// assigned server-side at creation and never change afterwards; edits may only
// touch the remaining fields.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Category      Category        `json:"category"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Date          time.Time       `json:"date"`
}

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPayment   = errors.New("invalid payment method")
)

// Validate checks the user-editable fields. The aggregation engine does not
// validate; this runs at the producer boundary (HTTP handlers).
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	switch t.Type {
	case TypeIncome, TypeExpense:
	default:
		return ErrInvalidType
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.PaymentMethod != "" {
		switch t.PaymentMethod {
		case PaymentPix, PaymentCredit, PaymentDebit, PaymentOther:
		default:
			return ErrInvalidPayment
		}
	}
	return nil
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// IsInvestment reports whether the transaction counts toward the portfolio.
// Category is the sole signal; Type is deliberately ignored.
func (t Transaction) IsInvestment() bool {
	return t.Category == CategoryInvestment
}
