// Package covers stores uploaded book cover images on the local filesystem.
//
// Uploaded images are decoded, fitted within the configured bounds and
// re-encoded as JPEG, so only well-formed images reach the public directory.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/ouvrages/livre-api/internal/config"
	"github.com/ouvrages/livre-api/internal/platform/logger"
)

// Subdir is the directory under the public dir holding the covers.
const Subdir = "bookcovers"

// URLPrefix is the public path under which stored covers are served.
const URLPrefix = "/public/" + Subdir + "/"

// ErrInvalidImage is returned when an upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// Store writes normalised covers to <publicDir>/bookcovers.
type Store struct {
	dir     string
	cfg     config.CoversConfig
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewStore creates the cover directory if needed.
func NewStore(publicDir string, cfg config.CoversConfig, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	dir := filepath.Join(publicDir, Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory %s: %w", dir, err)
	}
	return &Store{
		dir:     dir,
		cfg:     cfg,
		logger:  log.With(slog.String("component", "covers")),
		nowFunc: time.Now,
	}, nil
}

// Dir returns the directory covers are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save decodes r, fits it within the configured bounds and writes it as a
// JPEG. It returns the public path of the stored file, e.g.
// "/public/bookcovers/1712345678901-<uuid>.jpg".
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		log.Debug("rejected cover upload", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = imaging.Fit(img, s.cfg.MaxWidth, s.cfg.MaxHeight, imaging.Lanczos)

	name := fmt.Sprintf("%d-%s.jpg", s.nowFunc().UnixMilli(), uuid.New().String())

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary cover file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(s.cfg.JPEGQuality)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to encode cover: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write cover: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store cover: %w", err)
	}

	bounds := img.Bounds()
	log.Info("cover stored",
		slog.String("file", name),
		slog.Int("width", bounds.Dx()),
		slog.Int("height", bounds.Dy()))
	return URLPrefix + name, nil
}

// Remove deletes a cover previously returned by Save. Paths outside the
// cover directory and files that are already gone are ignored.
func (s *Store) Remove(ctx context.Context, publicPath string) error {
	if !strings.HasPrefix(publicPath, URLPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name != strings.TrimPrefix(publicPath, URLPrefix) || name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cover %s: %w", name, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("cover removed", slog.String("file", name))
	return nil
}
