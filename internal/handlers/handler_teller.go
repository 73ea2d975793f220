package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/SscSPs/atm_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tellerHandler serves the counter operations: postings, lookups and account requests.
type tellerHandler struct {
	ledger   portssvc.LedgerWriterSvc
	bank     portssvc.BankSvcFacade
	currency portssvc.CurrencyConverterSvc
}

func newTellerHandler(ledger portssvc.LedgerWriterSvc, bank portssvc.BankSvcFacade, currency portssvc.CurrencyConverterSvc) *tellerHandler {
	return &tellerHandler{ledger: ledger, bank: bank, currency: currency}
}

// registerTellerRoutes registers routes used at the teller counter.
func registerTellerRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerWriterSvc, bank portssvc.BankSvcFacade, currency portssvc.CurrencyConverterSvc) {
	h := newTellerHandler(ledger, bank, currency)

	rg.POST("/deposits", h.deposit)
	rg.POST("/deposits/foreign", h.depositForeign)
	rg.POST("/withdrawals", h.withdraw)
	rg.POST("/transfers", h.transfer)
	rg.POST("/payments", h.pay)
	rg.POST("/account-requests", h.submitAccountRequest)
	rg.GET("/accounts/:accountNumber", h.getAccount)
	rg.GET("/customers/:customerNumber", h.getCustomer)
	rg.POST("/customers", h.registerCustomer)
	rg.GET("/currencies", h.listCurrencies)
}

func (h *tellerHandler) respondPosted(c *gin.Context, logger *slog.Logger, trx *domain.Transaction, err error, failMsg string) {
	if err != nil {
		respondError(c, logger, err, failMsg)
		return
	}
	logger.Info("Transaction posted", slog.Int("transaction_id", trx.TransactionID), slog.String("type", string(trx.Kind)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(trx))
}

func (h *tellerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AccountAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	trx, err := h.ledger.Deposit(c.Request.Context(), req.AccountNumber, req.Amount)
	h.respondPosted(c, logger, trx, err, "Failed to post deposit")
}

func (h *tellerHandler) depositForeign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ForeignDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DepositForeign", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	trx, err := h.ledger.DepositForeign(c.Request.Context(), req.AccountNumber, req.Amount, req.Currency)
	h.respondPosted(c, logger, trx, err, "Failed to post foreign deposit")
}

func (h *tellerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AccountAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	trx, err := h.ledger.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount)
	h.respondPosted(c, logger, trx, err, "Failed to post withdrawal")
}

func (h *tellerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	trx, err := h.ledger.Transfer(c.Request.Context(), req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	h.respondPosted(c, logger, trx, err, "Failed to post transfer")
}

func (h *tellerHandler) pay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Pay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	trx, err := h.ledger.Pay(c.Request.Context(), req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	h.respondPosted(c, logger, trx, err, "Failed to post payment")
}

func (h *tellerHandler) submitAccountRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitAccountRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitAccountRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	submitted, err := h.bank.SubmitAccountRequest(c.Request.Context(), req.CustomerNumber, req.AccountType)
	if err != nil {
		respondError(c, logger, err, "Failed to submit account request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountRequestDTO(*submitted))
}

func (h *tellerHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber, ok := intParam(c, "accountNumber")
	if !ok {
		return
	}
	account, err := h.bank.FindAccount(c.Request.Context(), accountNumber)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *tellerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerNumber, ok := intParam(c, "customerNumber")
	if !ok {
		return
	}
	customer, err := h.bank.FindCustomer(c.Request.Context(), customerNumber)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer")
		return
	}
	accounts, err := h.bank.ListCustomerAccounts(c.Request.Context(), customerNumber)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer, accounts))
}

func (h *tellerHandler) registerCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	customer, err := h.bank.RegisterCustomer(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, logger, err, "Failed to register customer")
		return
	}
	logger.Info("Customer registered", slog.Int("customer_number", customer.CustomerNumber))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer, nil))
}

func (h *tellerHandler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": h.currency.SupportedCurrencies()})
}
