package dto

import (
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data a manager sends to open an account directly.
type CreateAccountRequest struct {
	CustomerNumber int    `json:"customerNumber" binding:"required,gt=0"`
	AccountType    string `json:"accountType" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountNumber       int       `json:"accountNumber"`
	OwnerCustomerNumber int       `json:"ownerCustomerNumber"`
	AccountType         string    `json:"accountType"`
	Nature              string    `json:"nature"`
	Balance             string    `json:"balance"`
	OpenedAt            time.Time `json:"openedAt"`
	RecentTransactionID int       `json:"recentTransactionID"`
	IsPrimary           bool      `json:"isPrimary,omitempty"`
	CreditLimit         string    `json:"creditLimit,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountNumber:       acc.AccountNumber,
		OwnerCustomerNumber: acc.OwnerCustomerNumber,
		AccountType:         string(acc.Kind),
		Nature:              string(acc.Kind.Nature()),
		Balance:             domain.FormatAmount(acc.Balance),
		OpenedAt:            acc.OpenedAt,
		RecentTransactionID: acc.RecentTransactionID,
		IsPrimary:           acc.IsPrimary,
	}
	if acc.Kind.HasCreditLimit() {
		res.CreditLimit = domain.FormatAmount(acc.CreditLimit)
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// SubmitAccountRequestRequest is a teller's request to open an account on a customer's behalf.
type SubmitAccountRequestRequest struct {
	CustomerNumber int    `json:"customerNumber" binding:"required,gt=0"`
	AccountType    string `json:"accountType" binding:"required"`
}

// AccountRequestDTO is one pending account request, as listed and as sent back in a full update.
type AccountRequestDTO struct {
	CustomerNumber  int       `json:"customerNumber" binding:"required,gt=0"`
	AccountType     string    `json:"accountType" binding:"required"`
	RequestDateTime time.Time `json:"requestDateTime" binding:"required"`
}

// UpdateAccountRequestsRequest replaces the whole pending list.
type UpdateAccountRequestsRequest struct {
	Requests []AccountRequestDTO `json:"requests" binding:"dive"`
}

// ToAccountRequestDTO converts a domain.AccountRequest to its DTO.
func ToAccountRequestDTO(r domain.AccountRequest) AccountRequestDTO {
	return AccountRequestDTO{
		CustomerNumber:  r.CustomerNumber,
		AccountType:     r.RequestedKind,
		RequestDateTime: r.RequestedAt,
	}
}

// ToAccountRequestDTOs converts a slice of domain.AccountRequest.
func ToAccountRequestDTOs(requests []domain.AccountRequest) []AccountRequestDTO {
	res := make([]AccountRequestDTO, len(requests))
	for i, r := range requests {
		res[i] = ToAccountRequestDTO(r)
	}
	return res
}

// ToDomain converts the DTO back into a domain.AccountRequest.
func (r AccountRequestDTO) ToDomain() domain.AccountRequest {
	return domain.AccountRequest{
		CustomerNumber: r.CustomerNumber,
		RequestedKind:  r.AccountType,
		RequestedAt:    r.RequestDateTime,
	}
}
