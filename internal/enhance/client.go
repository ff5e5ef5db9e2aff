package enhance

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	// Fixed model and settings token the enhancement service expects; both
	// come from its public web client.
	modelID       = 3
	settingsToken = "kRpBbpnRCD2nL2RxnnuoMo7MBc0zHndTDkWMl9aW+Gw="

	defaultInitialDelay = time.Second
	defaultMaxAttempts  = 5
)

// ErrStillProcessing means the polling budget ran out while the remote job
// was still pending, as opposed to the job having failed.
var ErrStillProcessing = errors.New("enhancement still processing after polling budget")

// Client drives the remote image-enhancement workflow: submit a job, poll
// for its output URL, download the result. Polling uses doubling backoff up
// to a fixed attempt budget; nothing else is retried.
type Client struct {
	http         *http.Client
	baseURL      string
	initialDelay time.Duration
	maxAttempts  int
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:         httpClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		initialDelay: defaultInitialDelay,
		maxAttempts:  defaultMaxAttempts,
	}
}

type createRequest struct {
	Model    int    `json:"model"`
	Image    string `json:"image"`
	Settings string `json:"settings"`
}

type createResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type resultRequest struct {
	TaskID string `json:"task_id"`
}

type resultResponse struct {
	Data struct {
		Output string `json:"output"`
	} `json:"data"`
}

// Submit posts the image as a data URI and returns the remote task id.
func (c *Client) Submit(ctx context.Context, image []byte) (string, error) {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	body, err := c.postJSON(ctx, "/api/v1/r/image-enhance/create", createRequest{
		Model:    modelID,
		Image:    dataURI,
		Settings: settingsToken,
	})
	if err != nil {
		return "", err
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	if created.Data.ID == "" {
		return "", fmt.Errorf("enhancement service returned no task id")
	}
	return created.Data.ID, nil
}

// AwaitResult polls for the job's output URL with doubling backoff. An empty
// output is treated as still-processing until the attempt budget is spent.
func (c *Client) AwaitResult(ctx context.Context, taskID string) (string, error) {
	delay := c.initialDelay
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2

		body, err := c.postJSON(ctx, "/api/v1/r/image-enhance/result", resultRequest{TaskID: taskID})
		if err != nil {
			return "", err
		}

		var result resultResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("failed to decode result response: %w", err)
		}
		if result.Data.Output != "" {
			return result.Data.Output, nil
		}
	}
	return "", ErrStillProcessing
}

// Download fetches the enhanced image bytes from the output URL.
func (c *Client) Download(ctx context.Context, outputURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outputURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("enhanced image download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Run executes the full submit, poll, download pipeline.
func (c *Client) Run(ctx context.Context, image []byte) (taskID string, enhanced []byte, err error) {
	taskID, err = c.Submit(ctx, image)
	if err != nil {
		return "", nil, err
	}

	outputURL, err := c.AwaitResult(ctx, taskID)
	if err != nil {
		return taskID, nil, err
	}

	enhanced, err = c.Download(ctx, outputURL)
	if err != nil {
		return taskID, nil, err
	}
	return taskID, enhanced, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 10)")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/ai-image-upscaler")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("enhancement service returned %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
