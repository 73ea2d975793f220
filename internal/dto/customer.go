package dto

import (
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// RegisterCustomerRequest defines the data needed to register a customer.
type RegisterCustomerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
}

// CustomerResponse defines the data returned for a customer lookup.
type CustomerResponse struct {
	CustomerNumber         int               `json:"customerNumber"`
	Username               string            `json:"username"`
	CreatedAt              time.Time         `json:"createdAt"`
	PrimaryChequingAccount *int              `json:"primaryChequingAccount,omitempty"`
	Accounts               []AccountResponse `json:"accounts"`
}

// ToCustomerResponse converts a customer and its accounts to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer, accounts []domain.Account) CustomerResponse {
	return CustomerResponse{
		CustomerNumber:         c.CustomerNumber,
		Username:               c.Username,
		CreatedAt:              c.CreatedAt,
		PrimaryChequingAccount: c.PrimaryChequingAccount,
		Accounts:               ToListAccountResponse(accounts),
	}
}
