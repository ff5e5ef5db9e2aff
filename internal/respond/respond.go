package respond

import (
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON marshals v and writes it with the given status code.
func JSON(ctx *fasthttp.RequestCtx, statusCode int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}

// Error writes the standard {success:false, error, message} failure body.
func Error(ctx *fasthttp.RequestCtx, statusCode int, errField, message string) {
	JSON(ctx, statusCode, ErrorBody{
		Success: false,
		Error:   errField,
		Message: message,
	})
}
