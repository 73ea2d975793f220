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

// managerHandler serves the operations reserved for an authenticated manager.
type managerHandler struct {
	undo portssvc.UndoSvc
	bank portssvc.BankSvcFacade
}

func newManagerHandler(undo portssvc.UndoSvc, bank portssvc.BankSvcFacade) *managerHandler {
	return &managerHandler{undo: undo, bank: bank}
}

// registerManagerRoutes registers routes on a group already guarded by the manager role.
func registerManagerRoutes(rg *gin.RouterGroup, undo portssvc.UndoSvc, bank portssvc.BankSvcFacade) {
	h := newManagerHandler(undo, bank)

	rg.GET("/undo/recent", h.getMostRecent)
	rg.POST("/undo/recent", h.undoMostRecent)
	rg.POST("/undo/:transactionID", h.undoTransaction)

	rg.GET("/transactions", h.listTransactions)
	rg.GET("/transactions/:transactionID", h.getTransaction)

	rg.GET("/accounts", h.listAccounts)
	rg.POST("/accounts", h.createAccount)

	rg.GET("/account-requests", h.listAccountRequests)
	rg.PUT("/account-requests", h.updateAccountRequests)
	rg.POST("/account-requests/:index/approve", h.approveAccountRequest)

	rg.POST("/reload", h.reload)
}

func (h *managerHandler) getMostRecent(c *gin.Context) {
	trx := h.undo.MostRecentTransaction()
	if trx == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no recent transaction"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(trx))
}

func (h *managerHandler) undoMostRecent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reversal, err := h.undo.UndoMostRecentTransaction(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to undo most recent transaction")
		return
	}
	logger.Info("Most recent transaction reversed", slog.Int("reversed_id", reversal.CounterpartyNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

func (h *managerHandler) undoTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := intParam(c, "transactionID")
	if !ok {
		return
	}
	reversal, err := h.undo.UndoTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to undo transaction")
		return
	}
	logger.Info("Transaction reversed", slog.Int("reversed_id", id))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

func (h *managerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	page, err := h.bank.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *managerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := intParam(c, "transactionID")
	if !ok {
		return
	}
	trx, err := h.bank.FindTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(trx))
}

func (h *managerHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.bank.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

func (h *managerHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	account, err := h.bank.CreateAccount(c.Request.Context(), dto.AccountRequestDTO{
		CustomerNumber: req.CustomerNumber,
		AccountType:    req.AccountType,
	}.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}
	logger.Info("Account created", slog.Int("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *managerHandler) listAccountRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requests, err := h.bank.ListAccountRequests(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list account requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountRequestDTOs(requests))
}

func (h *managerHandler) updateAccountRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAccountRequestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccountRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requests := make([]domain.AccountRequest, 0, len(req.Requests))
	for _, r := range req.Requests {
		requests = append(requests, r.ToDomain())
	}
	if err := h.bank.UpdateAccountRequests(c.Request.Context(), requests); err != nil {
		respondError(c, logger, err, "Failed to update account requests")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *managerHandler) approveAccountRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	account, err := h.bank.ApproveAccountRequest(c.Request.Context(), index)
	if err != nil {
		respondError(c, logger, err, "Failed to approve account request")
		return
	}
	logger.Info("Account request approved", slog.Int("index", index), slog.Int("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *managerHandler) reload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.bank.Reload(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to reload records")
		return
	}
	c.Status(http.StatusNoContent)
}
