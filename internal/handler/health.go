package handler // declare the package name; contains HTTP handlers

import (
	"context"  // bounds the database ping
	"net/http" // net/http provides status codes and response helpers
	"time"     // ping timeout

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/store-rating-platform/internal/config"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the API can reach its database.
type HealthHandler struct {
	DB  Pinger
	Cfg config.Config
}

func NewHealthHandler(db Pinger, cfg config.Config) *HealthHandler {
	return &HealthHandler{DB: db, Cfg: cfg}
}

type envCheck struct {
	HasDatabaseURL bool   `json:"hasDatabaseUrl"`
	HasJWTSecret   bool   `json:"hasJwtSecret"`
	Env            string `json:"env"`
}

type statusResp struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Database string   `json:"database"`
	Env      envCheck `json:"env"`
	Error    string   `json:"error,omitempty"`
	Version  string   `json:"version"`
}

// Status pings the database and reports which required settings are
// present without revealing their values. It answers 500 when the ping
// fails.
func (h *HealthHandler) Status(c echo.Context) error {
	resp := statusResp{
		Success:  true,
		Message:  "Store Rating Platform API",
		Database: "Connected",
		Env: envCheck{
			HasDatabaseURL: h.Cfg.DatabaseURL != "",
			HasJWTSecret:   h.Cfg.JWTSecret != "",
			Env:            h.Cfg.Env,
		},
		Version: Version,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		resp.Success = false
		resp.Database = "Connection Failed"
		if !h.Cfg.IsProduction() {
			resp.Error = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// Health is a simple liveness endpoint used by load balancers. It does
// not touch the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok") // plain text "ok" with 200
}
