package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/storage"
)

func newTransaction(description string, amount float64) models.Transaction {
	return models.Transaction{
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
		Type:        models.TypeExpense,
		Category:    models.CategoryFood,
	}
}

func TestLoadEmptyWhenAbsent(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())

	txs, err := s.Load("u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions, want 0", len(txs))
	}
}

func TestLoadEmptyWhenCorrupt(t *testing.T) {
	kv := storage.NewMemoryStore()
	if err := kv.Put("cifra_transactions_u1", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	s := NewTransactionStore(kv)

	txs, err := s.Load("u1")
	if err != nil {
		t.Fatalf("corrupt blob must not surface an error, got %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions from corrupt blob, want 0", len(txs))
	}
}

func TestAddAssignsServerFields(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())

	created, err := s.Add("u1", newTransaction("mercado", 52.30))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == "" {
		t.Error("Add did not assign an id")
	}
	if created.UserID != "u1" {
		t.Errorf("owner = %q, want u1", created.UserID)
	}
	if created.Date.IsZero() {
		t.Error("Add did not assign a timestamp")
	}

	txs, err := s.Load("u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Errorf("stored collection = %+v, want the created transaction", txs)
	}
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())
	created, err := s.Add("u1", newTransaction("mercado", 52.30))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	edit := newTransaction("padaria", 12)
	edit.ID = "attacker-chosen"
	edit.UserID = "someone-else"
	updated, err := s.Update("u1", created.ID, edit)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != created.ID || updated.UserID != "u1" {
		t.Errorf("id/owner changed across edit: %+v", updated)
	}
	if !updated.Date.Equal(created.Date) {
		t.Errorf("date changed across edit: %v -> %v", created.Date, updated.Date)
	}
	if updated.Description != "padaria" || !updated.Amount.Equal(decimal.NewFromInt(12)) {
		t.Errorf("editable fields not applied: %+v", updated)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())
	if _, err := s.Update("u1", "missing", newTransaction("x", 1)); err != ErrTransactionNotFound {
		t.Errorf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())
	first, _ := s.Add("u1", newTransaction("a", 1))
	second, _ := s.Add("u1", newTransaction("b", 2))

	if err := s.Remove("u1", first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	txs, _ := s.Load("u1")
	if len(txs) != 1 || txs[0].ID != second.ID {
		t.Errorf("after remove got %+v, want only %q", txs, second.ID)
	}

	if err := s.Remove("u1", first.ID); err != ErrTransactionNotFound {
		t.Errorf("removing twice: err = %v, want ErrTransactionNotFound", err)
	}
}

func TestCollectionsAreScopedPerUser(t *testing.T) {
	s := NewTransactionStore(storage.NewMemoryStore())
	if _, err := s.Add("u1", newTransaction("a", 1)); err != nil {
		t.Fatal(err)
	}

	txs, err := s.Load("u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 0 {
		t.Errorf("user u2 sees %d foreign transactions", len(txs))
	}
}
