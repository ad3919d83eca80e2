package export

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/tartampluch/go-contacts/internal/config"
)

//go:embed assets/*.png
var assetsFS embed.FS

const assetsDir = "assets/"

// ImageSource opens avatar and branding images by reference.
// This interface allows tests to serve images without network or disk access.
type ImageSource interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Resolver implements ImageSource for local paths, file:// URIs,
// http(s):// URLs and images bundled in the binary (embedded:<name>).
type Resolver struct {
	Client *http.Client
}

// NewResolver creates a Resolver with the configured HTTP timeout.
func NewResolver() *Resolver {
	return &Resolver{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Open returns the image stream for ref. The caller closes it.
func (r *Resolver) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	switch u.Scheme {
	case config.SchemeHTTP, config.SchemeHTTPS:
		return r.fetch(ctx, u)
	case config.SchemeFile:
		return openLocal(u.Path)
	case config.SchemeEmbedded:
		return openEmbedded(u.Opaque)
	case "":
		return openLocal(ref)
	default:
		// Windows drive letters parse as one-letter schemes.
		if len(u.Scheme) == 1 {
			return openLocal(ref)
		}
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
}

func (r *Resolver) fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	// Query strings may carry tokens; keep them out of the logs.
	safeURL := u.Scheme + "://" + u.Host + u.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompImages),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgImageFetch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImageFetch, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImageFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgImageStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrImageStatus, resp.StatusCode, safeURL)
	}

	return resp.Body, nil
}

func openLocal(path string) (io.ReadCloser, error) {
	slog.Debug(config.MsgImageFetch,
		config.LogKeyComponent, config.CompImages,
		config.LogKeyFile, path,
	)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImageFetch, err)
	}
	return f, nil
}

func openEmbedded(name string) (io.ReadCloser, error) {
	f, err := assetsFS.Open(assetsDir + name)
	if err != nil {
		return nil, fmt.Errorf("%s: %q", config.ErrEmbeddedImage, name)
	}
	return f, nil
}

// readImage loads ref fully and maps its sniffed content type to the image
// type names understood by the PDF writer. Images larger than
// config.MaxImageSize are rejected.
func readImage(ctx context.Context, src ImageSource, ref string) ([]byte, string, error) {
	rc, err := src.Open(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, config.MaxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", config.ErrImageFetch, err)
	}
	if len(data) > config.MaxImageSize {
		return nil, "", errors.New(config.ErrImageTooLarge)
	}

	imageType, err := sniffImageType(data)
	if err != nil {
		return nil, "", err
	}
	return data, imageType, nil
}

func sniffImageType(data []byte) (string, error) {
	head := data[:min(len(data), config.SniffLength)]
	switch mime := http.DetectContentType(head); mime {
	case config.MimePNG:
		return config.ImageTypePNG, nil
	case config.MimeJPEG:
		return config.ImageTypeJPG, nil
	case config.MimeGIF:
		return config.ImageTypeGIF, nil
	default:
		return "", fmt.Errorf("%s: %s", config.ErrImageType, mime)
	}
}
