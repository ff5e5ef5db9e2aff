package cdn

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcdn/gitcdn_server/internal/gitstore"
)

// mockStore keeps committed files in memory so gateway behavior can be
// tested without live GitHub infrastructure.
type mockStore struct {
	files       map[string][]byte
	listErr     error
	putErr      error
	putCalls    int
	lastMessage string
}

func newMockStore() *mockStore {
	return &mockStore{files: map[string][]byte{}}
}

func (m *mockStore) List(ctx context.Context) ([]gitstore.Entry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	entries := []gitstore.Entry{}
	for name, data := range m.files {
		entries = append(entries, gitstore.Entry{
			Name: name,
			Size: int64(len(data)),
			Kind: "file",
		})
	}
	return entries, nil
}

func (m *mockStore) FetchRaw(ctx context.Context, name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, gitstore.ErrNotFound
	}
	return data, nil
}

func (m *mockStore) Put(ctx context.Context, name string, data []byte, message string) error {
	m.putCalls++
	m.lastMessage = message
	if m.putErr != nil {
		return m.putErr
	}
	m.files[name] = data
	return nil
}

func (m *mockStore) RawURL(name string) string {
	return "https://raw.githubusercontent.com/owner/repo/main/cdn/" + name
}

func TestUpload_ShouldRoundTripBytesThroughFetch(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)
	payload := []byte{0x01, 0x02}

	// when
	result, err := service.Upload(context.Background(), payload, "image/png", "")

	// then
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasSuffix(result.FileName, ".png"), "expected .png name, got %s", result.FileName)
	assert.Equal(t, int64(2), result.SizeBytes)
	assert.Equal(t, "http://localhost:8080/file/"+result.FileName, result.URL)

	fetched, err := service.Fetch(context.Background(), result.FileName)
	require.NoError(t, err)
	assert.Equal(t, payload, fetched.Data)
	assert.Equal(t, "image/png", fetched.ContentType)
}

func TestUpload_ShouldPreferHintedNameExtension(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	result, err := service.Upload(context.Background(), []byte("clip"), "application/octet-stream", "holiday.MP4")

	// then
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FileName, ".mp4"), "expected .mp4 name, got %s", result.FileName)
}

func TestUpload_ShouldRejectEmptyPayload(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	_, err := service.Upload(context.Background(), nil, "image/png", "")

	// then
	assert.ErrorIs(t, err, ErrEmptyPayload)
	assert.Equal(t, 0, store.putCalls)
}

func TestUpload_ShouldRejectPayloadOverLimit(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 8)

	// when
	_, err := service.Upload(context.Background(), []byte("123456789"), "image/png", "")

	// then
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Equal(t, 0, store.putCalls)
}

func TestUpload_ShouldGenerateDistinctNames(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	first, err := service.Upload(context.Background(), []byte("a"), "image/png", "")
	require.NoError(t, err)
	second, err := service.Upload(context.Background(), []byte("b"), "image/png", "")
	require.NoError(t, err)

	// then
	assert.NotEqual(t, first.FileName, second.FileName)
}

func TestUploadWithMarker_ShouldEmbedMarkerInName(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	result, err := service.UploadWithMarker(context.Background(), []byte("img"), "image/jpeg", "enhanced")

	// then
	require.NoError(t, err)
	assert.Contains(t, result.FileName, "_enhanced_")
	assert.True(t, strings.HasSuffix(result.FileName, ".jpg"))
	assert.Equal(t, "CDN Upload - Enhanced Image "+result.FileName, store.lastMessage)
}

func TestUpload_ShouldCommitWithPlainUploadMessage(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	result, err := service.Upload(context.Background(), []byte("img"), "image/png", "")

	// then
	require.NoError(t, err)
	assert.Equal(t, "CDN Upload "+result.FileName, store.lastMessage)
}

func TestRedirectURL_ShouldEmbedNameAndBranchVerbatim(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	// when
	url, err := service.RedirectURL("1712345678901_ab12cd34.png")

	// then
	require.NoError(t, err)
	assert.Contains(t, url, "/1712345678901_ab12cd34.png")
	assert.Contains(t, url, "/main/")
}

func TestRedirectURL_ShouldRejectTraversalNames(t *testing.T) {
	store := newMockStore()
	service := NewService(store, "http://localhost:8080", 0)

	for _, name := range []string{"", "../secret", "a/b.png", "a\\b.png"} {
		_, err := service.RedirectURL(name)
		assert.ErrorIs(t, err, gitstore.ErrInvalidName, "name %q", name)
	}
}

func TestStats_ShouldAggregateCountAndSize(t *testing.T) {
	// given
	store := newMockStore()
	store.files["a.png"] = []byte("12345")
	store.files["b.mp4"] = []byte("123")
	service := NewService(store, "http://localhost:8080", 0)

	// when
	report := service.Stats(context.Background())

	// then
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, int64(8), report.TotalSize)
	assert.Len(t, report.Files, 2)
	for _, file := range report.Files {
		assert.Equal(t, "http://localhost:8080/file/"+file.Name, file.URL)
	}
}

func TestStats_ShouldReturnZeroReportOnMissingFolder(t *testing.T) {
	// given
	store := newMockStore()
	store.listErr = gitstore.ErrNotFound
	service := NewService(store, "http://localhost:8080", 0)

	// when
	report := service.Stats(context.Background())

	// then
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, int64(0), report.TotalSize)
	assert.Empty(t, report.Files)
}

func TestStats_ShouldReturnZeroReportOnUpstreamFailure(t *testing.T) {
	// given
	store := newMockStore()
	store.listErr = fmt.Errorf("boom")
	service := NewService(store, "http://localhost:8080", 0)

	// when
	report := service.Stats(context.Background())

	// then
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Files)
}

func TestStats_ShouldSkipNonFileEntries(t *testing.T) {
	// given
	store := newMockStore()
	service := NewService(&dirStore{mockStore: store}, "http://localhost:8080", 0)

	// when
	report := service.Stats(context.Background())

	// then
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, int64(5), report.TotalSize)
}

// dirStore returns a listing that mixes a directory entry in with a file.
type dirStore struct {
	*mockStore
}

func (d *dirStore) List(ctx context.Context) ([]gitstore.Entry, error) {
	return []gitstore.Entry{
		{Name: "nested", Size: 0, Kind: "dir"},
		{Name: "a.png", Size: 5, Kind: "file"},
	}, nil
}
