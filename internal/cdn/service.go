package cdn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gitcdn/gitcdn_server/internal/gitstore"
)

const defaultMaxUploadSize = 25 * 1024 * 1024

var (
	ErrEmptyPayload    = errors.New("no file data in request")
	ErrPayloadTooLarge = errors.New("payload exceeds upload size limit")
)

// Store is the slice of the gitstore client the gateway depends on, kept as
// an interface so tests can substitute an in-memory store.
type Store interface {
	List(ctx context.Context) ([]gitstore.Entry, error)
	FetchRaw(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte, message string) error
	RawURL(name string) string
}

// Service is the asset gateway: it resolves raw-content URLs, streams stored
// bytes with a resolved content type, and persists uploads into the store
// under collision-resistant generated names.
type Service struct {
	store         Store
	publicBaseURL string
	maxUploadSize int64
}

func NewService(store Store, publicBaseURL string, maxUploadSize int64) *Service {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Service{
		store:         store,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		maxUploadSize: maxUploadSize,
	}
}

func (s *Service) MaxUploadSize() int64 {
	return s.maxUploadSize
}

// RedirectURL returns the canonical raw-content URL for a stored file.
func (s *Service) RedirectURL(name string) (string, error) {
	if err := gitstore.ValidateName(name); err != nil {
		return "", err
	}
	return s.store.RawURL(name), nil
}

// FileURL returns the gateway's own fetch URL for a stored file. Upload
// responses use this rather than the raw-content URL so content-type
// negotiation stays under the gateway's control.
func (s *Service) FileURL(name string) string {
	return s.publicBaseURL + "/file/" + name
}

func (s *Service) Fetch(ctx context.Context, name string) (*FetchedFile, error) {
	data, err := s.store.FetchRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	return &FetchedFile{
		Name:        name,
		Data:        data,
		ContentType: ContentTypeByName(name),
		SizeBytes:   int64(len(data)),
	}, nil
}

// Upload validates the payload, derives a unique name and commits the bytes.
// The extension comes from the hinted name when it has one, otherwise from
// the declared content type.
func (s *Service) Upload(ctx context.Context, data []byte, declaredContentType, hintedName string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	if int64(len(data)) > s.maxUploadSize {
		return nil, ErrPayloadTooLarge
	}

	name := s.generateName(declaredContentType, hintedName, "")
	if err := s.store.Put(ctx, name, data, "CDN Upload "+name); err != nil {
		return nil, err
	}

	return &UploadResult{
		Success:   true,
		URL:       s.FileURL(name),
		FileName:  name,
		SizeBytes: int64(len(data)),
	}, nil
}

// UploadWithMarker behaves like Upload but inserts a marker into the
// generated name and commit message, used by the enhancement pipeline to
// label its output.
func (s *Service) UploadWithMarker(ctx context.Context, data []byte, declaredContentType, marker string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	if int64(len(data)) > s.maxUploadSize {
		return nil, ErrPayloadTooLarge
	}

	name := s.generateName(declaredContentType, "", marker)
	if err := s.store.Put(ctx, name, data, "CDN Upload - Enhanced Image "+name); err != nil {
		return nil, err
	}

	return &UploadResult{
		Success:   true,
		URL:       s.FileURL(name),
		FileName:  name,
		SizeBytes: int64(len(data)),
	}, nil
}

// Stats lists the store and aggregates file count and total size. A missing
// directory is a normal steady state and yields a zero report; any other
// upstream failure is logged and also yields a zero report, so the stats
// surface never errors.
func (s *Service) Stats(ctx context.Context) *StatsReport {
	report := &StatsReport{Files: []FileStat{}}

	entries, err := s.store.List(ctx)
	if err != nil {
		if !errors.Is(err, gitstore.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to list store for stats")
		}
		return report
	}

	for _, entry := range entries {
		if entry.Kind != "file" {
			continue
		}
		report.Total++
		report.TotalSize += entry.Size
		report.Files = append(report.Files, FileStat{
			Name: entry.Name,
			Size: entry.Size,
			URL:  s.FileURL(entry.Name),
		})
	}
	return report
}

// generateName builds "<unix-ms>[_<marker>]_<suffix>.<ext>". The random
// suffix keeps two uploads in the same millisecond from colliding; the store
// offers no compare-and-swap, so this is the only collision protection.
func (s *Service) generateName(declaredContentType, hintedName, marker string) string {
	ext := ""
	if hintedName != "" {
		if i := strings.LastIndex(hintedName, "."); i != -1 && i < len(hintedName)-1 {
			ext = strings.ToLower(hintedName[i+1:])
		}
	}
	if ext == "" {
		ext = ExtensionByContentType(declaredContentType)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if marker != "" {
		return fmt.Sprintf("%d_%s_%s.%s", time.Now().UnixMilli(), marker, suffix, ext)
	}
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), suffix, ext)
}
