package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/SscSPs/atm_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles manager authentication.
type authHandler struct {
	authService portssvc.AuthSvc
}

func newAuthHandler(as portssvc.AuthSvc) *authHandler {
	return &authHandler{authService: as}
}

// login checks the manager's credentials and returns a signed access token.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if statusForError(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondError(c, logger, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, res)
}
