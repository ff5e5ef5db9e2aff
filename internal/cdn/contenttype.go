package cdn

import "strings"

var contentTypesByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	"pdf":  "application/pdf",
	"json": "application/json",
	"txt":  "text/plain",
	"html": "text/html",
	"css":  "text/css",
	"js":   "text/javascript",
	"zip":  "application/zip",
	"gz":   "application/gzip",
}

var extensionsByContentType = map[string]string{
	"image/jpeg":       "jpg",
	"image/png":        "png",
	"image/gif":        "gif",
	"image/webp":       "webp",
	"image/svg+xml":    "svg",
	"video/mp4":        "mp4",
	"video/webm":       "webm",
	"video/quicktime":  "mov",
	"audio/mpeg":       "mp3",
	"audio/mp4":        "m4a",
	"audio/ogg":        "ogg",
	"audio/wav":        "wav",
	"application/pdf":  "pdf",
	"application/json": "json",
	"text/plain":       "txt",
	"text/html":        "html",
}

// ContentTypeByName resolves a canonical content type from a file name's
// extension, defaulting to application/octet-stream.
func ContentTypeByName(filename string) string {
	dotIndex := strings.LastIndex(filename, ".")
	if dotIndex == -1 || dotIndex == len(filename)-1 {
		return "application/octet-stream"
	}
	ext := strings.ToLower(filename[dotIndex+1:])
	if ct, ok := contentTypesByExtension[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtensionByContentType resolves a file extension (without dot) from a MIME
// type, defaulting to "bin". Parameters such as "; charset=utf-8" are ignored.
func ExtensionByContentType(contentType string) string {
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if ext, ok := extensionsByContentType[contentType]; ok {
		return ext
	}
	return "bin"
}
