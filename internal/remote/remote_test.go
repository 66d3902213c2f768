package remote

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"azblob://myaccount/datasets/submissions.parquet", true},
		{"https://myaccount.blob.core.windows.net/datasets/submissions.parquet", true},
		{"/data/submissions.parquet", false},
		{"submissions.parquet", false},
		{"https://example.com/submissions.parquet", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRemote(tt.ref), tt.ref)
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    Location
		wantErr bool
	}{
		{
			name:   "azblob scheme",
			rawURL: "azblob://myaccount/datasets/dumps/submissions.parquet",
			want: Location{
				AccountURL: "https://myaccount.blob.core.windows.net",
				Container:  "datasets",
				Blob:       "dumps/submissions.parquet",
			},
		},
		{
			name:   "https blob endpoint",
			rawURL: "https://myaccount.blob.core.windows.net/datasets/submissions.parquet",
			want: Location{
				AccountURL: "https://myaccount.blob.core.windows.net",
				Container:  "datasets",
				Blob:       "submissions.parquet",
			},
		},
		{
			name:    "missing blob path",
			rawURL:  "azblob://myaccount/datasets",
			wantErr: true,
		},
		{
			name:    "missing account",
			rawURL:  "azblob:///datasets/submissions.parquet",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			rawURL:  "ftp://host/container/blob",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.rawURL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// newTestFetcher returns a BlobFetcher whose download step writes content
// instead of talking to Azure.
func newTestFetcher(t *testing.T, content string, downloadErr error) (*BlobFetcher, *int) {
	t.Helper()
	calls := 0
	f := NewBlobFetcher(t.TempDir())
	f.download = func(_ context.Context, _ Location, dst *os.File) error {
		calls++
		if downloadErr != nil {
			return downloadErr
		}
		_, err := dst.WriteString(content)
		return err
	}
	return f, &calls
}

func TestFetch_DownloadsAndCaches(t *testing.T) {
	f, calls := newTestFetcher(t, "parquet bytes", nil)

	local, err := f.Fetch(context.Background(), "azblob://acct/datasets/submissions.parquet")
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "parquet bytes", string(data))
	assert.Equal(t, 1, *calls)

	// Second fetch hits the cache.
	again, err := f.Fetch(context.Background(), "azblob://acct/datasets/submissions.parquet")
	require.NoError(t, err)
	assert.Equal(t, local, again)
	assert.Equal(t, 1, *calls)
}

func TestFetch_DistinctURLsDoNotCollide(t *testing.T) {
	f, _ := newTestFetcher(t, "x", nil)

	p1, err := f.Fetch(context.Background(), "azblob://acct/a/submissions.parquet")
	require.NoError(t, err)
	p2, err := f.Fetch(context.Background(), "azblob://acct/b/submissions.parquet")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestFetch_DownloadFailureLeavesNoCacheEntry(t *testing.T) {
	f, _ := newTestFetcher(t, "", errors.New("boom"))

	_, err := f.Fetch(context.Background(), "azblob://acct/datasets/submissions.parquet")
	require.Error(t, err)

	// A retry must attempt the download again rather than find a partial file.
	f.download = func(_ context.Context, _ Location, dst *os.File) error {
		_, err := dst.WriteString("ok")
		return err
	}
	local, err := f.Fetch(context.Background(), "azblob://acct/datasets/submissions.parquet")
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestFetch_InvalidURL(t *testing.T) {
	f := NewBlobFetcher(t.TempDir())
	_, err := f.Fetch(context.Background(), "ftp://nope/a/b")
	assert.Error(t, err)
}
