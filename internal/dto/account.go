package dto

import (
	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account head.
type CreateAccountRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required"`
	Name          string `json:"name" binding:"required"`
	GroupCode     string `json:"groupCode"`
}

// UpdateAccountRequest defines the updatable account fields. Nil means "leave
// unchanged".
type UpdateAccountRequest struct {
	Name      *string `json:"name"`
	GroupCode *string `json:"groupCode"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	GroupCode     string          `json:"groupCode"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		GroupCode:     a.GroupCode,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
