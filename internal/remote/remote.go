// Package remote resolves competition dataset files hosted in Azure Blob
// Storage. Blobs are downloaded once into a local cache directory and
// subsequent opens reuse the cached copy.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Fetcher resolves a remote dataset URL to a local file path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Location identifies a single blob.
type Location struct {
	AccountURL string
	Container  string
	Blob       string
}

// IsRemote reports whether the given dataset reference is a remote blob URL
// rather than a local file path. Both the azblob:// scheme and https URLs
// pointing at a blob endpoint are recognized.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "azblob://") ||
		(strings.HasPrefix(ref, "https://") && strings.Contains(ref, ".blob.core.windows.net/"))
}

// ParseURL splits a dataset URL into its blob location. Supported forms:
//
//	azblob://<account>/<container>/<path/to/blob>
//	https://<account>.blob.core.windows.net/<container>/<path/to/blob>
func ParseURL(rawURL string) (Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Location{}, fmt.Errorf("parsing dataset URL: %w", err)
	}

	var accountURL string
	switch u.Scheme {
	case "azblob":
		if u.Host == "" {
			return Location{}, fmt.Errorf("dataset URL %q is missing the storage account", rawURL)
		}
		accountURL = fmt.Sprintf("https://%s.blob.core.windows.net", u.Host)
	case "https":
		accountURL = "https://" + u.Host
	default:
		return Location{}, fmt.Errorf("unsupported dataset URL scheme %q", u.Scheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("dataset URL %q must include a container and blob path", rawURL)
	}

	return Location{
		AccountURL: accountURL,
		Container:  parts[0],
		Blob:       parts[1],
	}, nil
}

// downloadFunc performs the actual blob download. Swapped out in tests.
type downloadFunc func(ctx context.Context, loc Location, dst *os.File) error

// BlobFetcher downloads blobs with the Azure SDK, authenticating through
// the default credential chain unless an explicit credential is provided.
type BlobFetcher struct {
	cacheDir string
	cred     azcore.TokenCredential
	download downloadFunc
	logger   *slog.Logger
}

// BlobOption configures a BlobFetcher.
type BlobOption func(*BlobFetcher)

// WithCredential overrides the default Azure credential chain.
func WithCredential(cred azcore.TokenCredential) BlobOption {
	return func(f *BlobFetcher) { f.cred = cred }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) BlobOption {
	return func(f *BlobFetcher) { f.logger = logger }
}

// NewBlobFetcher creates a fetcher that caches downloads under cacheDir.
func NewBlobFetcher(cacheDir string, opts ...BlobOption) *BlobFetcher {
	f := &BlobFetcher{
		cacheDir: cacheDir,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.download == nil {
		f.download = f.azblobDownload
	}
	return f
}

// Fetch resolves rawURL to a local file, downloading it on first use. The
// cached file name embeds a hash of the full URL so distinct blobs with the
// same base name do not collide.
func (f *BlobFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	loc, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}

	local := f.cachePath(rawURL, loc)
	if _, err := os.Stat(local); err == nil {
		f.logger.Debug("dataset cache hit", "url", rawURL, "path", local)
		return local, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("creating download cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.cacheDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	f.logger.Info("downloading dataset", "url", rawURL)
	if err := f.download(ctx, loc, tmp); err != nil {
		tmp.Close() //nolint:errcheck
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	// Rename only after a complete download so a cached file is never partial.
	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", fmt.Errorf("moving download into cache: %w", err)
	}
	return local, nil
}

func (f *BlobFetcher) cachePath(rawURL string, loc Location) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8])+"-"+path.Base(loc.Blob))
}

func (f *BlobFetcher) azblobDownload(ctx context.Context, loc Location, dst *os.File) error {
	cred := f.cred
	if cred == nil {
		var err error
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return fmt.Errorf("building azure credential: %w", err)
		}
	}

	client, err := azblob.NewClient(loc.AccountURL, cred, nil)
	if err != nil {
		return fmt.Errorf("creating blob client: %w", err)
	}

	if _, err := client.DownloadFile(ctx, loc.Container, loc.Blob, dst, nil); err != nil {
		return fmt.Errorf("downloading %s/%s: %w", loc.Container, loc.Blob, err)
	}
	return nil
}
