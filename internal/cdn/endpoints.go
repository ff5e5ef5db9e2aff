package cdn

import (
	"encoding/base64"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/gitcdn/gitcdn_server/internal/gitstore"
	"github.com/gitcdn/gitcdn_server/internal/respond"
)

const immutableCacheControl = "public, max-age=31536000, immutable"

type Endpoints struct {
	service    *Service
	storeReady bool
}

func NewEndpoints(service *Service, storeReady bool) *Endpoints {
	return &Endpoints{
		service:    service,
		storeReady: storeReady,
	}
}

// File serves GET /file/{name}. The default behavior is a 302 to the
// raw-content URL; ?proxy=1 streams the bytes through the gateway with a
// resolved Content-Type instead.
func (e *Endpoints) File(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("fileName").(string)
	if name == "" {
		respond.Error(ctx, fasthttp.StatusBadRequest, "File not found", "File name is required")
		return
	}

	if string(ctx.QueryArgs().Peek("proxy")) == "1" {
		e.stream(ctx, name)
		return
	}

	rawURL, err := e.service.RedirectURL(name)
	if err != nil {
		respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid file name", "File name contains disallowed characters")
		return
	}

	ctx.Response.Header.Set("Cache-Control", immutableCacheControl)
	ctx.Redirect(rawURL, fasthttp.StatusFound)
}

func (e *Endpoints) stream(ctx *fasthttp.RequestCtx, name string) {
	fetched, err := e.service.Fetch(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, gitstore.ErrInvalidName):
			respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid file name", "File name contains disallowed characters")
		case errors.Is(err, gitstore.ErrNotFound):
			respond.Error(ctx, fasthttp.StatusNotFound, "File not found", "No stored file with that name")
		default:
			log.Error().Err(err).Str("name", name).Msg("Failed to fetch stored file")
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Fetch failed", "Failed to fetch file from store")
		}
		return
	}

	ctx.SetContentType(fetched.ContentType)
	ctx.Response.Header.Set("Cache-Control", immutableCacheControl)
	ctx.Response.Header.Set("Content-Length", strconv.FormatInt(fetched.SizeBytes, 10))
	if strings.HasPrefix(fetched.ContentType, "image/") || strings.HasPrefix(fetched.ContentType, "text/") {
		ctx.Response.Header.Set("Content-Disposition", "inline")
	} else {
		ctx.Response.Header.Set("Content-Disposition", "inline; filename=\""+fetched.Name+"\"")
	}
	ctx.SetBody(fetched.Data)
}

// Stats serves GET /stats. The report is always 200; missing or failing
// upstream degrades to a zero report.
func (e *Endpoints) Stats(ctx *fasthttp.RequestCtx) {
	report := e.service.Stats(ctx)
	ctx.Response.Header.Set("Cache-Control", "public, max-age=60")
	respond.JSON(ctx, fasthttp.StatusOK, report)
}

// Upload serves POST /upload. The payload can arrive three ways: a multipart
// form field "file", a base64 text body, or a raw binary body.
func (e *Endpoints) Upload(ctx *fasthttp.RequestCtx) {
	if !e.storeReady {
		respond.Error(ctx, fasthttp.StatusInternalServerError, "Missing GitHub configuration", "Store owner, repo and token must be configured")
		return
	}

	data, contentType, hintedName, ok := readUploadPayload(ctx)
	if !ok {
		return
	}

	result, err := e.service.Upload(ctx, data, contentType, hintedName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyPayload):
			respond.Error(ctx, fasthttp.StatusBadRequest, "No file data", "Request body contained no file bytes")
		case errors.Is(err, ErrPayloadTooLarge):
			respond.Error(ctx, fasthttp.StatusRequestEntityTooLarge, "File too large", "Upload exceeds the size limit")
		default:
			log.Error().Err(err).Msg("Failed to upload file to store")
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Upload failed", "Failed to commit file to store")
		}
		return
	}

	ctx.Response.Header.Set("Cache-Control", immutableCacheControl)
	respond.JSON(ctx, fasthttp.StatusOK, result)
}

func readUploadPayload(ctx *fasthttp.RequestCtx) (data []byte, contentType, hintedName string, ok bool) {
	requestContentType := string(ctx.Request.Header.ContentType())

	if strings.HasPrefix(requestContentType, "multipart/form-data") {
		form, err := ctx.MultipartForm()
		if err != nil {
			respond.Error(ctx, fasthttp.StatusBadRequest, "Invalid form", "Failed to parse multipart form")
			return nil, "", "", false
		}
		files := form.File["file"]
		if len(files) == 0 {
			respond.Error(ctx, fasthttp.StatusBadRequest, "No file data", "Multipart form field \"file\" is required")
			return nil, "", "", false
		}
		fileHeader := files[0]
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Upload failed", "Failed to open uploaded file")
			return nil, "", "", false
		}
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			respond.Error(ctx, fasthttp.StatusInternalServerError, "Upload failed", "Failed to read uploaded file")
			return nil, "", "", false
		}
		return data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename, true
	}

	body := ctx.PostBody()
	// Text bodies are treated as base64; anything that fails to decode is
	// taken as raw binary.
	if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body))); err == nil && len(decoded) > 0 {
		return decoded, requestContentType, "", true
	}
	return body, requestContentType, "", true
}
