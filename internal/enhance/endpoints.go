package enhance

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal/cdn"
	"github.com/gitcdn/gitcdn_server/internal/respond"
)

type Endpoints struct {
	client     *Client
	gateway    *cdn.Service
	storeReady bool
}

func NewEndpoints(client *Client, gateway *cdn.Service, storeReady bool) *Endpoints {
	return &Endpoints{
		client:     client,
		gateway:    gateway,
		storeReady: storeReady,
	}
}

type upscaleBody struct {
	Image string `json:"image"`
}

type enhancementInfo struct {
	TaskID  string `json:"task_id"`
	Process string `json:"process"`
	Result  string `json:"result"`
	Service string `json:"service"`
}

type upscaleResponse struct {
	Success     bool            `json:"success"`
	URL         string          `json:"url"`
	FileName    string          `json:"fileName"`
	Enhancement enhancementInfo `json:"enhancement"`
	Message     string          `json:"message"`
}

// Upscale serves POST /upscale: decode the submitted image, run the remote
// enhancement pipeline and store the result in the CDN folder.
func (e *Endpoints) Upscale(ctx *fasthttp.RequestCtx) {
	if !e.storeReady {
		respond.Error(ctx, fasthttp.StatusInternalServerError, "Missing GitHub configuration", "Store owner, repo and token must be configured")
		return
	}

	image, contentType, ok := readImagePayload(ctx)
	if !ok {
		return
	}

	taskID, enhanced, err := e.client.Run(ctx, image)
	if err != nil {
		switch {
		case errors.Is(err, ErrStillProcessing):
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Still processing", "Enhancement did not finish in time; try again later")
		default:
			log.Error().Err(err).Str("taskId", taskID).Msg("Enhancement pipeline failed")
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Enhancement failed", "Failed to enhance the image")
		}
		return
	}

	result, err := e.gateway.UploadWithMarker(ctx, enhanced, contentType, "enhanced")
	if err != nil {
		log.Error().Err(err).Str("taskId", taskID).Msg("Failed to store enhanced image")
		respond.Error(ctx, fasthttp.StatusInternalServerError, "Enhancement failed", "Failed to store the enhanced image")
		return
	}

	ctx.Response.Header.Set("Cache-Control", "public, max-age=31536000, immutable")
	respond.JSON(ctx, fasthttp.StatusOK, upscaleResponse{
		Success:  true,
		URL:      result.URL,
		FileName: result.FileName,
		Enhancement: enhancementInfo{
			TaskID:  taskID,
			Process: "Success",
			Result:  "HD Quality",
			Service: "AIEnhancer.ai",
		},
		Message: "Image upscale completed",
	})
}

// readImagePayload accepts three body shapes: JSON {image} carrying a data
// URI, JSON {image} carrying plain base64, or a raw base64/binary body.
func readImagePayload(ctx *fasthttp.RequestCtx) (image []byte, contentType string, ok bool) {
	body := ctx.PostBody()
	contentType = "image/jpeg"

	if strings.HasPrefix(string(ctx.Request.Header.ContentType()), "application/json") {
		var parsed upscaleBody
		if err := json.Unmarshal(body, &parsed); err != nil {
			respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid JSON", "Request body is not valid JSON")
			return nil, "", false
		}
		if parsed.Image == "" {
			respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid image payload", "Field \"image\" is required")
			return nil, "", false
		}

		payload := parsed.Image
		if strings.HasPrefix(payload, "data:image") {
			header, data, found := strings.Cut(payload, ",")
			if !found {
				respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid image payload", "Malformed data URI")
				return nil, "", false
			}
			if mime, rest, found := strings.Cut(header, ":"); found && mime == "data" {
				contentType, _, _ = strings.Cut(rest, ";")
			}
			payload = data
		}

		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil || len(decoded) == 0 {
			respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid image payload", "Image is not valid base64")
			return nil, "", false
		}
		return decoded, contentType, true
	}

	if ct := string(ctx.Request.Header.ContentType()); ct != "" {
		contentType = ct
	}
	if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body))); err == nil && len(decoded) > 0 {
		return decoded, contentType, true
	}
	if len(body) == 0 {
		respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid image payload", "Request body contained no image data")
		return nil, "", false
	}
	return body, contentType, true
}
