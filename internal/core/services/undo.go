package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// UndoMostRecentTransaction reverses the tracked transaction. A transaction that is
// not undoable stays tracked; any other attempt clears the pointer, whatever its outcome.
func (s *ledgerService) UndoMostRecentTransaction(ctx context.Context) (*domain.Transaction, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.mostRecent == nil {
		return nil, apperrors.ErrNothingToUndo
	}
	if !s.mostRecent.Undoable {
		s.LogInfo(ctx, "Most recent transaction is not undoable", slog.Int("transaction_id", s.mostRecent.TransactionID))
		return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotUndoable, s.mostRecent.TransactionID)
	}

	target := s.mostRecent.TransactionID
	s.mostRecent = nil
	return s.reverseLocked(ctx, target)
}

// UndoTransaction reverses any transaction in the log, not just the most recent one.
func (s *ledgerService) UndoTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	reversal, err := s.reverseLocked(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if s.mostRecent != nil && s.mostRecent.TransactionID == transactionID {
		s.mostRecent = nil
	}
	return reversal, nil
}

// reverseLocked appends a Reversal for transactionID and applies the exact inverse
// of its legs. The original line is left untouched. The caller must hold state.mu.
func (s *ledgerService) reverseLocked(ctx context.Context, transactionID int) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.Int("transaction_id", transactionID))

	snap := s.state.load()
	original, ok := snap.findTransaction(transactionID)
	if !ok {
		logger.Warn("Transaction to undo not found")
		return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
	}
	if !original.Undoable || original.IsReversingEntry {
		logger.Info("Transaction is not undoable", slog.String("transaction_type", string(original.Kind)))
		return nil, fmt.Errorf("%w: transaction %d (%s)", apperrors.ErrNotUndoable, transactionID, original.Kind)
	}
	if reversalID, done := snap.reversedBy[transactionID]; done {
		logger.Info("Transaction already reversed", slog.Int("reversal_id", reversalID))
		return nil, fmt.Errorf("%w: transaction %d was already reversed by %d", apperrors.ErrConflict, transactionID, reversalID)
	}

	reversal := domain.Transaction{
		TransactionID:      snap.nextTransactionID,
		CustomerNumber:     original.CustomerNumber,
		AccountNumber:      original.AccountNumber,
		Amount:             original.Amount,
		Kind:               domain.Reversal,
		Timestamp:          s.now(),
		CounterpartyNumber: original.TransactionID,
		Undoable:           false,
		IsReversingEntry:   true,
	}
	if err := reversal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	registry := snap.registry.Clone()
	legs := resolveLegs(original, original.Kind.Legs(), true)
	if err := s.postLegs(registry, reversal, legs, false); err != nil {
		if isRejection(err) {
			logger.Warn("Reversal rejected", slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to compute reversal", slog.Int("transaction_id", transactionID))
		}
		return nil, err
	}

	if err := s.state.commitTransaction(ctx, registry, reversal); err != nil {
		s.LogError(ctx, err, "Failed to commit reversal", slog.Int("transaction_id", transactionID))
		return nil, err
	}
	s.state.publish(snap.withTransaction(registry, reversal))

	logger.Info("Transaction reversed",
		slog.Int("reversal_id", reversal.TransactionID),
		slog.String("amount", domain.FormatAmount(reversal.Amount)))
	return &reversal, nil
}
