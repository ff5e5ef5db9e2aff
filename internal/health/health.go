package health

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal/respond"
)

type HealthEndpoints struct {
	version   string
	startedAt time.Time
}

func NewEndpoints(version string) *HealthEndpoints {
	return &HealthEndpoints{
		version:   version,
		startedAt: time.Now(),
	}
}

type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

func (h *HealthEndpoints) Health(ctx *fasthttp.RequestCtx) {
	respond.JSON(ctx, fasthttp.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}
