package flatfile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

func encodeCustomer(c domain.Customer) []string {
	return []string{
		strconv.Itoa(c.CustomerNumber),
		c.Username,
		domain.FormatTime(c.CreatedAt),
	}
}

func decodeCustomer(fields []string) (domain.Customer, error) {
	var c domain.Customer
	if err := expectFields(fields, 3); err != nil {
		return c, err
	}

	var err error
	if c.CustomerNumber, err = strconv.Atoi(fields[0]); err != nil {
		return c, fmt.Errorf("invalid customer number: %w", err)
	}
	c.Username = fields[1]
	if c.CreatedAt, err = domain.ParseTime(fields[2]); err != nil {
		return c, fmt.Errorf("invalid creation date: %w", err)
	}
	return c, nil
}

// ReadAllCustomers implements portsrepo.CustomerStore.
func (s *Store) ReadAllCustomers(ctx context.Context) ([]domain.Customer, error) {
	return readRecords(ctx, s.path(s.customerFile), decodeCustomer)
}

// WriteAllCustomers implements portsrepo.CustomerStore.
func (s *Store) WriteAllCustomers(ctx context.Context, customers []domain.Customer) error {
	lines := make([][]string, len(customers))
	for i, c := range customers {
		lines[i] = encodeCustomer(c)
	}
	return writeRecords(ctx, s.path(s.customerFile), lines)
}
