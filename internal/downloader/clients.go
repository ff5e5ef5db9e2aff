package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// ErrTargetNotFound means the scraping target answered 404 for the
// requested video.
var ErrTargetNotFound = errors.New("scrape target reported video not found")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// TikTokClient fetches the ttsave download page for a TikTok URL. The site
// expects a JSON body and browser-like headers; anything else gets blocked.
type TikTokClient struct {
	http    *http.Client
	baseURL string
}

func NewTikTokClient(httpClient *http.Client, baseURL string) *TikTokClient {
	return &TikTokClient{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type tiktokScrapeRequest struct {
	Query      string `json:"query"`
	LanguageID string `json:"language_id"`
}

func (c *TikTokClient) Scrape(ctx context.Context, videoURL string) (string, error) {
	payload, err := json.Marshal(tiktokScrapeRequest{
		Query:      videoURL,
		LanguageID: "2",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/download", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/id")

	return doScrape(c.http, req)
}

// YouTubeClient fetches the mediamister download page for a YouTube URL via
// its form-encoded XHR endpoint.
type YouTubeClient struct {
	http    *http.Client
	baseURL string
}

func NewYouTubeClient(httpClient *http.Client, baseURL string) *YouTubeClient {
	return &YouTubeClient{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *YouTubeClient) Scrape(ctx context.Context, videoURL string) (string, error) {
	form := url.Values{}
	form.Set("url", videoURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/get_youtube_video", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", c.baseURL+"/youtube-video-downloader")

	return doScrape(c.http, req)
}

func doScrape(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrTargetNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("scrape target returned %d", resp.StatusCode)
	}
	return string(body), nil
}
