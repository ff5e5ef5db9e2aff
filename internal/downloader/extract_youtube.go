package downloader

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespacePattern  = regexp.MustCompile(`\s+`)
	parenSizePattern   = regexp.MustCompile(`\(([^)]+)\)`)
	progressivePattern = regexp.MustCompile(`\d+p`)
)

// ExtractYouTube pulls download links out of a mediamister-style result
// page. The page renders two .yt_format sections without semantic markers;
// treating the first as video and the last as audio is a positional
// heuristic that breaks if the layout changes, in which case extraction
// degrades to an empty result rather than failing.
func ExtractYouTube(html string) *YouTubeResult {
	result := &YouTubeResult{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	result.Thumbnail, _ = doc.Find(".yt_thumb img").First().Attr("src")
	result.Title = strings.TrimSpace(doc.Find("h2").First().Text())

	sections := doc.Find(".yt_format")

	sections.First().Find("a.download-button").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		label := collapseLabel(a.Text())

		format := "mp4"
		if strings.Contains(href, "mime=video/webm") {
			format = "webm"
		}

		asset := MediaAsset{
			Quality: label,
			URL:     href,
			Format:  format,
			Kind:    MediaKindVideo,
			Size:    labelSize(label),
		}
		if m := progressivePattern.FindString(label); m != "" {
			asset.Resolution = &m
		}
		result.Videos = append(result.Videos, asset)
	})

	sections.Last().Find("a.download-button.audio").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		label := collapseLabel(a.Text())

		format := "m4a"
		if strings.Contains(href, "mime=audio/webm") {
			format = "webm"
		}

		result.Audios = append(result.Audios, MediaAsset{
			Quality: label,
			URL:     href,
			Format:  format,
			Kind:    MediaKindAudio,
			Size:    labelSize(label),
		})
	})

	return result
}

func (r *YouTubeResult) HasMedia() bool {
	return len(r.Videos) > 0 || len(r.Audios) > 0
}

func collapseLabel(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// labelSize reads the parenthesized size out of a quality label like
// "720p MP4 (12.3 MB)".
func labelSize(label string) *string {
	m := parenSizePattern.FindStringSubmatch(label)
	if m == nil {
		return nil
	}
	return &m[1]
}
