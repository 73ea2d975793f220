package flatfile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

func encodeAccountRequest(r domain.AccountRequest) []string {
	return []string{
		strconv.Itoa(r.CustomerNumber),
		r.RequestedKind,
		domain.FormatTime(r.RequestedAt),
	}
}

func decodeAccountRequest(fields []string) (domain.AccountRequest, error) {
	var r domain.AccountRequest
	if err := expectFields(fields, 3); err != nil {
		return r, err
	}

	var err error
	if r.CustomerNumber, err = strconv.Atoi(fields[0]); err != nil {
		return r, fmt.Errorf("invalid customer number: %w", err)
	}
	r.RequestedKind = fields[1]
	if strings.TrimSpace(r.RequestedKind) == "" {
		return r, fmt.Errorf("empty requested account type")
	}
	if r.RequestedAt, err = domain.ParseTime(fields[2]); err != nil {
		return r, fmt.Errorf("invalid request date: %w", err)
	}
	return r, nil
}

// ReadAllAccountRequests implements portsrepo.AccountRequestStore.
func (s *Store) ReadAllAccountRequests(ctx context.Context) ([]domain.AccountRequest, error) {
	return readRecords(ctx, s.path(s.accountRequestFile), decodeAccountRequest)
}

// WriteAllAccountRequests rewrites the whole request file from the given list.
func (s *Store) WriteAllAccountRequests(ctx context.Context, requests []domain.AccountRequest) error {
	lines := make([][]string, len(requests))
	for i, r := range requests {
		lines[i] = encodeAccountRequest(r)
	}
	return writeRecords(ctx, s.path(s.accountRequestFile), lines)
}
