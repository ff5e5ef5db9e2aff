package downloader

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	durationPattern   = regexp.MustCompile(`\d+:\d+`)
	resolutionPattern = regexp.MustCompile(`(?i)\d+p|HD|SD`)
	sizePattern       = regexp.MustCompile(`[\d.,]+\s*MB`)
)

// tiktokAnchorRules maps the download page's type markers to the asset
// presentation the gateway surfaces. Order matters: it is the order formats
// appear in the response.
var tiktokAnchorRules = []struct {
	marker  string
	quality string
	format  string
	kind    MediaKind
}{
	{"no-watermark", "No Watermark", "mp4", MediaKindVideo},
	{"watermark", "With Watermark", "mp4", MediaKindVideo},
	{"audio", "Audio Only", "mp3", MediaKindAudio},
	{"cover", "Cover Image", "jpg", MediaKindImage},
	{"profile", "Profile Picture", "jpg", MediaKindImage},
}

// ExtractTikTok pulls download links out of a ttsave-style result page. The
// page tags its anchors with a "type" attribute per rendition; everything
// else (sizes, resolution, duration) is opportunistic label parsing and may
// be missing. Malformed markup degrades to an empty result, never an error.
func ExtractTikTok(html string) *TikTokResult {
	result := &TikTokResult{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	result.VideoID, _ = doc.Find("#unique-id").Attr("value")
	result.Title = strings.TrimSpace(doc.Find("h4").First().Text())
	result.Author = strings.TrimSpace(doc.Find("p.text-sm").First().Text())
	result.Duration = durationPattern.FindString(doc.Text())

	// One resolution label serves every video rendition on this page.
	var resolution *string
	if m := resolutionPattern.FindString(doc.Text()); m != "" {
		resolution = &m
	}

	for _, rule := range tiktokAnchorRules {
		anchor := doc.Find("a[type='" + rule.marker + "']").First()
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			continue
		}

		asset := MediaAsset{
			Quality: rule.quality,
			URL:     href,
			Format:  rule.format,
			Kind:    rule.kind,
		}
		if rule.kind != MediaKindImage {
			if m := sizePattern.FindString(anchor.Text()); m != "" {
				size := strings.TrimSpace(m)
				asset.Size = &size
			}
		}
		if rule.kind == MediaKindVideo {
			asset.Resolution = resolution
		}

		if rule.marker == "cover" {
			result.Thumbnail = href
		}
		result.Assets = append(result.Assets, asset)
	}

	// Pages without a cover anchor still carry the artwork as an inline img.
	if result.Thumbnail == "" {
		if src, ok := doc.Find("img[class*='cover']").First().Attr("src"); ok {
			result.Thumbnail = src
		}
	}

	return result
}

// HasVideo reports whether extraction found at least one video rendition,
// which is what decides between a success and a no-media response.
func (r *TikTokResult) HasVideo() bool {
	for _, asset := range r.Assets {
		if asset.Kind == MediaKindVideo {
			return true
		}
	}
	return false
}
