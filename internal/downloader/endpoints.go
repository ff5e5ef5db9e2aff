package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal/respond"
)

type Endpoints struct {
	tiktok  *TikTokClient
	youtube *YouTubeClient
}

func NewEndpoints(tiktok *TikTokClient, youtube *YouTubeClient) *Endpoints {
	return &Endpoints{
		tiktok:  tiktok,
		youtube: youtube,
	}
}

// Ttdl serves POST /ttdl: scrape the TikTok download target and surface the
// extracted renditions.
func (e *Endpoints) Ttdl(ctx *fasthttp.RequestCtx) {
	videoURL, ok := parseDownloadRequest(ctx, "TikTok")
	if !ok {
		return
	}
	if !hostMatches(videoURL, "tiktok.com") {
		respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid URL", "URL must be a TikTok link")
		return
	}

	html, err := e.tiktok.Scrape(ctx, videoURL)
	if err != nil {
		writeScrapeError(ctx, err, "TikTok")
		return
	}

	result := ExtractTikTok(html)
	if !result.HasVideo() {
		respond.Error(ctx, fasthttp.StatusNotFound, "No media found", "No downloadable TikTok video was found")
		return
	}

	title := result.Title
	if title == "" {
		title = "TikTok Video"
	}

	data := tiktokData{
		VideoID:   result.VideoID,
		Title:     title,
		Thumbnail: result.Thumbnail,
		Author:    result.Author,
		Duration:  result.Duration,
		Formats:   result.Assets,
	}

	metadata := scrapeMetadata{URL: videoURL, Source: "TikTok"}
	for _, asset := range result.Assets {
		switch asset.Kind {
		case MediaKindVideo:
			metadata.VideoCount++
		case MediaKindAudio:
			metadata.AudioCount++
		case MediaKindImage:
			metadata.ImageCount++
		}
	}

	respond.JSON(ctx, fasthttp.StatusOK, tiktokResponse{
		Success:  true,
		Data:     data,
		Metadata: metadata,
		Message:  fmt.Sprintf("TikTok download ready: %s (%d formats)", title, len(result.Assets)),
	})
}

// Ytdl serves POST /ytdl: scrape the YouTube download target and surface the
// extracted video and audio renditions.
func (e *Endpoints) Ytdl(ctx *fasthttp.RequestCtx) {
	videoURL, ok := parseDownloadRequest(ctx, "YouTube")
	if !ok {
		return
	}
	if !hostMatches(videoURL, "youtube.com", "youtu.be") {
		respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid URL", "URL must be a YouTube link")
		return
	}

	html, err := e.youtube.Scrape(ctx, videoURL)
	if err != nil {
		writeScrapeError(ctx, err, "YouTube")
		return
	}

	result := ExtractYouTube(html)
	if !result.HasMedia() {
		respond.Error(ctx, fasthttp.StatusNotFound, "No media found", "No downloadable video or audio was found")
		return
	}

	respond.JSON(ctx, fasthttp.StatusOK, youtubeResponse{
		Success: true,
		Data: youtubeData{
			Title:     result.Title,
			Thumbnail: result.Thumbnail,
			Videos:    result.Videos,
			Audios:    result.Audios,
			Source:    "MediaMister",
		},
		Metadata: scrapeMetadata{
			VideoCount: len(result.Videos),
			AudioCount: len(result.Audios),
			URL:        videoURL,
			Source:     "YouTube",
		},
		Message: fmt.Sprintf("YouTube download ready: %s (%d video, %d audio)", result.Title, len(result.Videos), len(result.Audios)),
	})
}

// hostMatches reports whether the URL's host is one of the given domains or a
// subdomain of one. Matching on the parsed host keeps lookalike domains such
// as notatiktok.com out.
func hostMatches(rawURL string, domains ...string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func parseDownloadRequest(ctx *fasthttp.RequestCtx, platform string) (string, bool) {
	var req downloadRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respond.Error(ctx, fasthttp.StatusBadRequest, "URL required", platform+" URL is missing from the request body")
		return "", false
	}
	if req.URL == "" {
		respond.Error(ctx, fasthttp.StatusBadRequest, "URL required", platform+" URL is missing from the request body")
		return "", false
	}
	return req.URL, true
}

func writeScrapeError(ctx *fasthttp.RequestCtx, err error, platform string) {
	switch {
	case errors.Is(err, ErrTargetNotFound):
		respond.Error(ctx, fasthttp.StatusNotFound, "Video not found", platform+" video was not found")
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(ctx, fasthttp.StatusInternalServerError, "Timeout", "Scrape target did not respond in time")
	default:
		log.Error().Err(err).Str("platform", platform).Msg("Failed to scrape download target")
		respond.Error(ctx, fasthttp.StatusInternalServerError, "Scrape failed", "Failed to fetch "+platform+" media data")
	}
}
