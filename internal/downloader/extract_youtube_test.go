package downloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediamisterSampleHTML = `
<html>
<body>
  <div class="yt_thumb"><img src="https://i.ytimg.example.com/vi/abc/hq720.jpg"></div>
  <h2>How to sharpen a chisel</h2>
  <div class="yt_format">
    <a class="download-button" href="https://r1.example.com/videoplayback?mime=video/mp4&amp;itag=22">
      720p  MP4
      (45.2 MB)
    </a>
    <a class="download-button" href="https://r1.example.com/videoplayback?mime=video/webm&itag=43">360p WEBM (18.9 MB)</a>
  </div>
  <div class="yt_format">
    <a class="download-button audio" href="https://r1.example.com/videoplayback?mime=audio/mp4&itag=140">M4A 128kbps (3.4 MB)</a>
    <a class="download-button audio" href="https://r1.example.com/videoplayback?mime=audio/webm&itag=251">OPUS 160kbps (3.9 MB)</a>
  </div>
</body>
</html>`

func TestExtractYouTube_ShouldPartitionVideoAndAudioSections(t *testing.T) {
	// when
	result := ExtractYouTube(mediamisterSampleHTML)

	// then
	assert.Equal(t, "How to sharpen a chisel", result.Title)
	assert.Equal(t, "https://i.ytimg.example.com/vi/abc/hq720.jpg", result.Thumbnail)
	require.Len(t, result.Videos, 2)
	require.Len(t, result.Audios, 2)
	assert.True(t, result.HasMedia())
}

func TestExtractYouTube_ShouldCollapseLabelWhitespaceAndParseQuality(t *testing.T) {
	// when
	result := ExtractYouTube(mediamisterSampleHTML)

	// then
	require.Len(t, result.Videos, 2)
	first := result.Videos[0]
	assert.Equal(t, "720p MP4 (45.2 MB)", first.Quality)
	assert.Equal(t, "mp4", first.Format)
	require.NotNil(t, first.Size)
	assert.Equal(t, "45.2 MB", *first.Size)
	require.NotNil(t, first.Resolution)
	assert.Equal(t, "720p", *first.Resolution)

	second := result.Videos[1]
	assert.Equal(t, "webm", second.Format)
}

func TestExtractYouTube_ShouldDetectAudioFormatsFromHref(t *testing.T) {
	// when
	result := ExtractYouTube(mediamisterSampleHTML)

	// then
	require.Len(t, result.Audios, 2)
	assert.Equal(t, "m4a", result.Audios[0].Format)
	assert.Equal(t, "webm", result.Audios[1].Format)
	assert.Equal(t, MediaKindAudio, result.Audios[0].Kind)
	assert.Nil(t, result.Audios[0].Resolution)
}

func TestExtractYouTube_ShouldUnescapeEntityInHref(t *testing.T) {
	// when
	result := ExtractYouTube(mediamisterSampleHTML)

	// then
	require.NotEmpty(t, result.Videos)
	assert.Equal(t, "https://r1.example.com/videoplayback?mime=video/mp4&itag=22", result.Videos[0].URL)
}

func TestExtractYouTube_ShouldDegradeToEmptyOnUnrecognizedMarkup(t *testing.T) {
	for _, html := range []string{
		"",
		"<html><body><h2>title only</h2></body></html>",
		"not html at all",
	} {
		result := ExtractYouTube(html)
		assert.Empty(t, result.Videos, "markup: %q", html)
		assert.Empty(t, result.Audios, "markup: %q", html)
		assert.False(t, result.HasMedia())
	}
}

func TestExtractYouTube_ShouldHandleSingleSectionPage(t *testing.T) {
	// A page with one .yt_format section makes first and last the same
	// node; audio anchors are only picked up when tagged with the audio
	// class, so videos do not leak into the audio list.
	html := `
<div class="yt_format">
  <a class="download-button" href="https://r1.example.com/v?mime=video/mp4">720p (10 MB)</a>
</div>`

	result := ExtractYouTube(html)

	assert.Len(t, result.Videos, 1)
	assert.Empty(t, result.Audios)
}
