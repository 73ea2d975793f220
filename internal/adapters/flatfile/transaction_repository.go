package flatfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/SscSPs/atm_ledger/internal/middleware"
)

// Transaction line layout:
//
//	trxID  customerNumber  trxType  trxAmount  accountNumber  trxDateTime  counterpartyNumber  undoable  isReversingEntry
func encodeTransaction(t domain.Transaction) []string {
	return []string{
		strconv.Itoa(t.TransactionID),
		strconv.Itoa(t.CustomerNumber),
		string(t.Kind),
		domain.FormatAmount(t.Amount),
		strconv.Itoa(t.AccountNumber),
		domain.FormatTime(t.Timestamp),
		strconv.Itoa(t.CounterpartyNumber),
		strconv.FormatBool(t.Undoable),
		strconv.FormatBool(t.IsReversingEntry),
	}
}

func decodeTransaction(fields []string) (domain.Transaction, error) {
	var t domain.Transaction
	if err := expectFields(fields, 9); err != nil {
		return t, err
	}

	var err error
	if t.TransactionID, err = strconv.Atoi(fields[0]); err != nil {
		return t, fmt.Errorf("invalid transaction ID: %w", err)
	}
	if t.CustomerNumber, err = strconv.Atoi(fields[1]); err != nil {
		return t, fmt.Errorf("invalid customer number: %w", err)
	}
	if t.Kind, err = domain.ParseTransactionKind(fields[2]); err != nil {
		return t, err
	}
	if t.Amount, err = domain.ParseAmount(fields[3]); err != nil {
		return t, err
	}
	if t.AccountNumber, err = strconv.Atoi(fields[4]); err != nil {
		return t, fmt.Errorf("invalid account number: %w", err)
	}
	if t.Timestamp, err = domain.ParseTime(fields[5]); err != nil {
		return t, fmt.Errorf("invalid transaction date: %w", err)
	}
	if t.CounterpartyNumber, err = strconv.Atoi(fields[6]); err != nil {
		return t, fmt.Errorf("invalid counterparty number: %w", err)
	}
	if t.Undoable, err = strconv.ParseBool(fields[7]); err != nil {
		return t, fmt.Errorf("invalid undoable flag: %w", err)
	}
	if t.IsReversingEntry, err = strconv.ParseBool(fields[8]); err != nil {
		return t, fmt.Errorf("invalid reversing entry flag: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// ReadAllTransactions implements portsrepo.TransactionStore.
func (s *Store) ReadAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return readRecords(ctx, s.path(s.transactionFile), decodeTransaction)
}

// HighestTransactionID returns the largest id in the first field of any log line,
// including lines that do not otherwise parse, so new ids never collide with a
// skipped entry.
func (s *Store) HighestTransactionID(ctx context.Context) (int, error) {
	highest := 0
	err := scanLines(ctx, s.path(s.transactionFile), func(_ int, fields []string) {
		if id, convErr := strconv.Atoi(strings.TrimSpace(fields[0])); convErr == nil {
			highest = max(highest, id)
		}
	})
	return highest, err
}

// AppendTransaction implements portsrepo.TransactionStore.
func (s *Store) AppendTransaction(ctx context.Context, trx domain.Transaction) (int64, error) {
	if err := trx.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return appendRecord(ctx, s.path(s.transactionFile), encodeTransaction(trx))
}

// TruncateTransactions implements portsrepo.TransactionStore.
func (s *Store) TruncateTransactions(ctx context.Context, size int64) error {
	path := s.path(s.transactionFile)
	if err := os.Truncate(path, size); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to truncate transaction log", slog.String("file", path), slog.Int64("size", size), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to truncate %s: %v", apperrors.ErrStorage, path, err)
	}
	return nil
}
