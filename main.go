package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal"
	"github.com/gitcdn/gitcdn_server/internal/cdn"
	"github.com/gitcdn/gitcdn_server/internal/downloader"
	"github.com/gitcdn/gitcdn_server/internal/enhance"
	"github.com/gitcdn/gitcdn_server/internal/gitstore"
	"github.com/gitcdn/gitcdn_server/internal/health"
)

const version = "1.0.0"

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}

	storeReady := config.GitHub.Valid()
	if !storeReady {
		log.Warn().Msg("GitHub store configuration incomplete; upload and upscale are disabled")
	}

	upstreamHTTP := &http.Client{Timeout: config.UpstreamTimeout}

	storeClient := gitstore.NewClient(upstreamHTTP, config.GitHub)
	gateway := cdn.NewService(storeClient, config.PublicBaseURL, config.MaxUploadSize)
	cdnEndpoints := cdn.NewEndpoints(gateway, storeReady)

	tiktokClient := downloader.NewTikTokClient(upstreamHTTP, config.TikTokBaseURL)
	youtubeClient := downloader.NewYouTubeClient(upstreamHTTP, config.YouTubeBaseURL)
	downloaderEndpoints := downloader.NewEndpoints(tiktokClient, youtubeClient)

	enhanceClient := enhance.NewClient(upstreamHTTP, config.EnhancerBaseURL)
	enhanceEndpoints := enhance.NewEndpoints(enhanceClient, gateway, storeReady)

	healthEndpoints := health.NewEndpoints(version)

	requestHandler := internal.NewRequestHandler(config, cdnEndpoints, downloaderEndpoints, enhanceEndpoints, healthEndpoints)

	server := &fasthttp.Server{
		Handler:            requestHandler,
		MaxRequestBodySize: int(config.MaxUploadSize) + 16*1024*1024,
	}

	log.Info().Str("addr", config.ListenAddr).Msg("Starting CDN gateway")
	if err := server.ListenAndServe(config.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}
}
