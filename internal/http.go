package internal

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal/cdn"
	"github.com/gitcdn/gitcdn_server/internal/downloader"
	"github.com/gitcdn/gitcdn_server/internal/enhance"
	"github.com/gitcdn/gitcdn_server/internal/health"
	"github.com/gitcdn/gitcdn_server/internal/middleware"
	"github.com/gitcdn/gitcdn_server/internal/respond"
)

func NewRequestHandler(config *Config, cdnEndpoints *cdn.Endpoints, downloaderEndpoints *downloader.Endpoints, enhanceEndpoints *enhance.Endpoints, healthEndpoints *health.HealthEndpoints) fasthttp.RequestHandler {
	corsMiddleware := middleware.NewCORSMiddleware(config.AllowedOrigins)

	handler := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())

		switch {
		case strings.HasPrefix(path, "/file/"):
			if string(ctx.Method()) != "GET" {
				methodNotAllowed(ctx)
				return
			}
			parts := strings.Split(path, "/")
			if len(parts) == 3 {
				ctx.SetUserValue("fileName", parts[2])
				cdnEndpoints.File(ctx)
			} else {
				respond.Error(ctx, fasthttp.StatusNotFound, "Not found", "Unknown file path")
			}

		case path == "/stats":
			if string(ctx.Method()) != "GET" {
				methodNotAllowed(ctx)
				return
			}
			cdnEndpoints.Stats(ctx)

		case path == "/upload":
			if string(ctx.Method()) != "POST" {
				methodNotAllowed(ctx)
				return
			}
			cdnEndpoints.Upload(ctx)

		case path == "/ttdl":
			if string(ctx.Method()) != "POST" {
				methodNotAllowed(ctx)
				return
			}
			downloaderEndpoints.Ttdl(ctx)

		case path == "/ytdl":
			if string(ctx.Method()) != "POST" {
				methodNotAllowed(ctx)
				return
			}
			downloaderEndpoints.Ytdl(ctx)

		case path == "/upscale":
			if string(ctx.Method()) != "POST" {
				methodNotAllowed(ctx)
				return
			}
			enhanceEndpoints.Upscale(ctx)

		case path == "/health":
			healthEndpoints.Health(ctx)

		default:
			respond.Error(ctx, fasthttp.StatusNotFound, "Not found", "Unknown endpoint")
		}
	}

	return corsMiddleware.Handle(handler)
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	respond.Error(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed", "Only "+expectedMethod(string(ctx.Path()))+" is accepted")
}

func expectedMethod(path string) string {
	switch path {
	case "/upload", "/ttdl", "/ytdl", "/upscale":
		return "POST"
	default:
		return "GET"
	}
}
