// Package store holds the domain stores. Each persists one slice of
// application state as a JSON blob in the key-value gateway, under the keys
// the product has always used.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/storage"
)

const transactionKeyFormat = "cifra_transactions_%s"

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionStore keeps one ordered transaction collection per user. Every
// mutation is a read-modify-write of the whole collection; the last full
// write wins.
type TransactionStore struct {
	kv storage.Store
}

func NewTransactionStore(kv storage.Store) *TransactionStore {
	return &TransactionStore{kv: kv}
}

// Load returns the user's transactions, or the empty list when nothing was
// stored yet. A corrupt blob is treated the same as absent data.
func (s *TransactionStore) Load(userID string) ([]models.Transaction, error) {
	raw, ok, err := s.kv.Get(fmt.Sprintf(transactionKeyFormat, userID))
	if err != nil {
		return nil, fmt.Errorf("load transactions for user %s: %w", userID, err)
	}
	if !ok {
		return []models.Transaction{}, nil
	}
	var txs []models.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		if logger.L != nil {
			logger.L.Warn("Corrupt transaction blob, resetting to empty", "userID", userID, "error", err)
		}
		return []models.Transaction{}, nil
	}
	return txs, nil
}

// ReplaceAll overwrites the user's whole collection.
func (s *TransactionStore) ReplaceAll(userID string, txs []models.Transaction) error {
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions for user %s: %w", userID, err)
	}
	if err := s.kv.Put(fmt.Sprintf(transactionKeyFormat, userID), raw); err != nil {
		return fmt.Errorf("save transactions for user %s: %w", userID, err)
	}
	return nil
}

// Add appends a new transaction, assigning id and timestamp server-side.
func (s *TransactionStore) Add(userID string, tx models.Transaction) (models.Transaction, error) {
	txs, err := s.Load(userID)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	tx.UserID = userID
	tx.Date = time.Now()
	txs = append(txs, tx)
	if err := s.ReplaceAll(userID, txs); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Update replaces the user-editable fields of an existing transaction.
// ID, owner and creation date are preserved across edits.
func (s *TransactionStore) Update(userID, id string, updated models.Transaction) (models.Transaction, error) {
	txs, err := s.Load(userID)
	if err != nil {
		return models.Transaction{}, err
	}
	for i := range txs {
		if txs[i].ID != id {
			continue
		}
		txs[i].Description = updated.Description
		txs[i].Amount = updated.Amount
		txs[i].Type = updated.Type
		txs[i].Category = updated.Category
		txs[i].PaymentMethod = updated.PaymentMethod
		if err := s.ReplaceAll(userID, txs); err != nil {
			return models.Transaction{}, err
		}
		return txs[i], nil
	}
	return models.Transaction{}, ErrTransactionNotFound
}

// Remove deletes a transaction by id.
func (s *TransactionStore) Remove(userID, id string) error {
	txs, err := s.Load(userID)
	if err != nil {
		return err
	}
	kept := txs[:0]
	found := false
	for _, tx := range txs {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return ErrTransactionNotFound
	}
	return s.ReplaceAll(userID, kept)
}
