package domain

import "time"

// Customer is the identity record a teller looks up. Credentials live elsewhere.
type Customer struct {
	CustomerNumber int       `json:"customerNumber"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"createdAt"`

	// PrimaryChequingAccount is rebuilt from the account records on every reload.
	PrimaryChequingAccount *int `json:"primaryChequingAccount,omitempty"`
}

// AccountRequest is a customer's pending request for a new account.
type AccountRequest struct {
	CustomerNumber int       `json:"customerNumber"`
	RequestedKind  string    `json:"requestedAccountType"`
	RequestedAt    time.Time `json:"requestDateTime"`
}
