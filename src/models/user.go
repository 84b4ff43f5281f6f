package models

import (
	"errors"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// DocumentType distinguishes personal (CPF) from business (CNPJ) accounts.
type DocumentType string

const (
	DocumentCPF  DocumentType = "CPF"
	DocumentCNPJ DocumentType = "CNPJ"
)

// MinimumSignupAge is enforced at registration.
const MinimumSignupAge = 16

// UserProfile is one account. MonthlyIncome and FixedExpenses are the
// recurring baseline the user declares for planning; they are profile-level
// settings, not transactions, and the summary combines them with ledger sums.
type UserProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"passwordHash,omitempty"`
	BirthDate     string          `json:"birthDate"` // YYYY-MM-DD
	DocumentType  DocumentType    `json:"documentType"`
	DocumentValue string          `json:"documentValue"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	FixedExpenses decimal.Decimal `json:"fixedExpenses"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"createdAt"`
}

var (
	ErrNameTooShort      = errors.New("name must be longer than 3 characters")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPasswordTooShort  = errors.New("password must have at least 4 characters")
	ErrInvalidBirthDate  = errors.New("invalid birth date")
	ErrUnderAge          = errors.New("you must be at least 16 years old")
	ErrInvalidDocument   = errors.New("invalid document for the selected type")
	ErrNonPositiveIncome = errors.New("monthly income must be greater than zero")
	ErrNegativeExpenses  = errors.New("fixed expenses must not be negative")
	ErrUnknownCurrency   = errors.New("unknown currency code")
)

// SetPassword stores a bcrypt hash of the given password.
func (u *UserProfile) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a candidate password with the stored hash.
func (u *UserProfile) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Sanitized returns a copy safe for API responses, with the hash cleared.
func (u UserProfile) Sanitized() UserProfile {
	u.PasswordHash = ""
	return u
}

// Validate checks the registration fields. The password is validated
// separately because only its hash lives on the profile.
func (u UserProfile) Validate(now time.Time) error {
	if len(strings.TrimSpace(u.Name)) <= 3 {
		return ErrNameTooShort
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	birth, err := time.Parse("2006-01-02", u.BirthDate)
	if err != nil {
		return ErrInvalidBirthDate
	}
	if age(birth, now) < MinimumSignupAge {
		return ErrUnderAge
	}
	switch u.DocumentType {
	case DocumentCPF:
		if len(u.DocumentValue) < 14 { // 000.000.000-00
			return ErrInvalidDocument
		}
	case DocumentCNPJ:
		if len(u.DocumentValue) < 18 { // 00.000.000/0000-00
			return ErrInvalidDocument
		}
	default:
		return ErrInvalidDocument
	}
	if !u.MonthlyIncome.IsPositive() {
		return ErrNonPositiveIncome
	}
	if u.FixedExpenses.IsNegative() {
		return ErrNegativeExpenses
	}
	if money.GetCurrency(u.Currency) == nil {
		return ErrUnknownCurrency
	}
	return nil
}

func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
