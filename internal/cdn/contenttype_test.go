package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeByName_ShouldResolveKnownExtensions(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeByName("photo.png"))
	assert.Equal(t, "image/jpeg", ContentTypeByName("photo.JPG"))
	assert.Equal(t, "video/mp4", ContentTypeByName("1712345678901_ab12cd34.mp4"))
	assert.Equal(t, "audio/mpeg", ContentTypeByName("track.mp3"))
	assert.Equal(t, "text/plain", ContentTypeByName("notes.txt"))
}

func TestContentTypeByName_ShouldDefaultToOctetStream(t *testing.T) {
	assert.Equal(t, "application/octet-stream", ContentTypeByName("archive.xyz"))
	assert.Equal(t, "application/octet-stream", ContentTypeByName("noextension"))
	assert.Equal(t, "application/octet-stream", ContentTypeByName("trailingdot."))
	assert.Equal(t, "application/octet-stream", ContentTypeByName(""))
}

func TestExtensionByContentType_ShouldResolveKnownTypes(t *testing.T) {
	assert.Equal(t, "png", ExtensionByContentType("image/png"))
	assert.Equal(t, "jpg", ExtensionByContentType("image/jpeg"))
	assert.Equal(t, "mp4", ExtensionByContentType("video/mp4"))
}

func TestExtensionByContentType_ShouldIgnoreParameters(t *testing.T) {
	assert.Equal(t, "txt", ExtensionByContentType("text/plain; charset=utf-8"))
	assert.Equal(t, "png", ExtensionByContentType("IMAGE/PNG"))
}

func TestExtensionByContentType_ShouldDefaultToBin(t *testing.T) {
	assert.Equal(t, "bin", ExtensionByContentType("application/x-unknown"))
	assert.Equal(t, "bin", ExtensionByContentType(""))
}
