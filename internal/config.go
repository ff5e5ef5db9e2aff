package internal

import (
	"time"

	"github.com/spf13/viper"

	"github.com/gitcdn/gitcdn_server/internal/gitstore"
)

type Config struct {
	ListenAddr     string
	PublicBaseURL  string
	AllowedOrigins []string

	GitHub gitstore.Config

	MaxUploadSize   int64
	UpstreamTimeout time.Duration

	TikTokBaseURL   string
	YouTubeBaseURL  string
	EnhancerBaseURL string
}

// LoadConfig builds the process configuration from the environment once at
// startup. Missing GitHub values are not fatal here: read-only surfaces keep
// working and write surfaces answer with a configuration error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("GITHUB_BRANCH", "main")
	v.SetDefault("GITHUB_DIR", "cdn")
	v.SetDefault("MAX_UPLOAD_SIZE", 25*1024*1024)
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	v.SetDefault("TIKTOK_BASE_URL", "https://ttsave.app")
	v.SetDefault("YOUTUBE_BASE_URL", "https://www.mediamister.com")
	v.SetDefault("ENHANCER_BASE_URL", "https://aienhancer.ai")

	config := &Config{
		ListenAddr:     v.GetString("LISTEN_ADDR"),
		PublicBaseURL:  v.GetString("PUBLIC_BASE_URL"),
		AllowedOrigins: v.GetStringSlice("ALLOWED_ORIGINS"),
		GitHub: gitstore.Config{
			Owner:  v.GetString("GITHUB_OWNER"),
			Repo:   v.GetString("GITHUB_REPO"),
			Branch: v.GetString("GITHUB_BRANCH"),
			Token:  v.GetString("GITHUB_TOKEN"),
			Dir:    v.GetString("GITHUB_DIR"),
		},
		MaxUploadSize:   v.GetInt64("MAX_UPLOAD_SIZE"),
		UpstreamTimeout: time.Duration(v.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		TikTokBaseURL:   v.GetString("TIKTOK_BASE_URL"),
		YouTubeBaseURL:  v.GetString("YOUTUBE_BASE_URL"),
		EnhancerBaseURL: v.GetString("ENHANCER_BASE_URL"),
	}
	return config, nil
}
