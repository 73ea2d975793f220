package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/SscSPs/atm_ledger/internal/utils"
	"github.com/SscSPs/atm_ledger/pkg/config"
)

// staffCredential is one configured login.
type staffCredential struct {
	username     string
	passwordHash string
	role         string
}

// authService checks the configured staff credentials and issues access tokens.
type authService struct {
	BaseService
	cfg   *config.Config
	staff []staffCredential
	now   func() time.Time
}

// NewAuthService creates a new instance of authService. A credential without a
// password hash cannot log in.
func NewAuthService(cfg *config.Config) portssvc.AuthSvc {
	return &authService{
		cfg: cfg,
		staff: []staffCredential{
			{username: cfg.ManagerUsername, passwordHash: cfg.ManagerPasswordHash, role: utils.RoleManager},
			{username: cfg.TellerUsername, passwordHash: cfg.TellerPasswordHash, role: utils.RoleTeller},
		},
		now: time.Now,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var matched *staffCredential
	for i := range s.staff {
		cred := &s.staff[i]
		if cred.username == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(req.Username), []byte(cred.username)) == 1 {
			matched = cred
		}
	}
	if matched == nil || !utils.CheckPasswordHash(req.Password, matched.passwordHash) {
		s.GetLogger(ctx).Warn("Staff login failed", slog.String("username", req.Username))
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(matched.username, matched.role, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.LogInfo(ctx, "Staff logged in", slog.String("username", matched.username), slog.String("role", matched.role))
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.JWTExpiryDuration / time.Second),
		Role:        matched.role,
	}, nil
}
