package downloader

type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
	MediaKindImage MediaKind = "image"
)

// MediaAsset is one downloadable rendition extracted from a scraping
// target's page. Size and resolution are best-effort parses of label text
// and may be absent.
type MediaAsset struct {
	Quality    string    `json:"quality"`
	URL        string    `json:"url"`
	Format     string    `json:"format"`
	Kind       MediaKind `json:"type"`
	Size       *string   `json:"size"`
	Resolution *string   `json:"resolution"`
}

type TikTokResult struct {
	VideoID   string
	Title     string
	Author    string
	Duration  string
	Thumbnail string
	Assets    []MediaAsset
}

type YouTubeResult struct {
	Title     string
	Thumbnail string
	Videos    []MediaAsset
	Audios    []MediaAsset
}

type downloadRequest struct {
	URL string `json:"url"`
}

type tiktokData struct {
	VideoID   string       `json:"video_id"`
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	Author    string       `json:"author"`
	Duration  string       `json:"duration"`
	Formats   []MediaAsset `json:"formats"`
}

type tiktokResponse struct {
	Success  bool           `json:"success"`
	Data     tiktokData     `json:"data"`
	Metadata scrapeMetadata `json:"metadata"`
	Message  string         `json:"message"`
}

type youtubeData struct {
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	Videos    []MediaAsset `json:"videos"`
	Audios    []MediaAsset `json:"audios"`
	Source    string       `json:"source"`
}

type youtubeResponse struct {
	Success  bool           `json:"success"`
	Data     youtubeData    `json:"data"`
	Metadata scrapeMetadata `json:"metadata"`
	Message  string         `json:"message"`
}

type scrapeMetadata struct {
	VideoCount int    `json:"video_count"`
	AudioCount int    `json:"audio_count"`
	ImageCount int    `json:"image_count,omitempty"`
	URL        string `json:"url"`
	Source     string `json:"source"`
}
