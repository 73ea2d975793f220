package handlers

import (
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/middleware"
	"github.com/SscSPs/atm_ledger/internal/utils"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")
	if err := registerAuthRoutes(v1, cfg, services.Auth); err != nil {
		return err
	}
	teller := v1.Group("/teller", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer, utils.RoleTeller, utils.RoleManager))
	registerTellerRoutes(teller, services.Ledger, services.Bank, services.Currency)

	manager := v1.Group("/manager", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer, utils.RoleManager))
	registerManagerRoutes(manager, services.Ledger, services.Bank)
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.ExposeHeaders = []string{"X-Request-ID"}
	c.MaxAge = 12 * time.Hour
	return c
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, authService portssvc.AuthSvc) error {
	ipLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("invalid LOGIN_RATE_LIMIT '%s': %w", cfg.LoginRateLimit, err)
	}
	h := newAuthHandler(authService)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.login)
	}
	return nil
}
