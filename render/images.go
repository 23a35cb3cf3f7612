package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// ImageFetcher turns a logo/avatar reference into an image buffer. A nil
// buffer with a nil error means "no image configured"; the renderer then
// draws a placeholder instead of failing.
type ImageFetcher interface {
	Fetch(ref string) ([]byte, error)
}

// maxLogoWidth bounds embedded logo bitmaps in pixels; anything wider is
// downscaled before page composition.
const maxLogoWidth = 600

// FileHTTPFetcher resolves image references that are either HTTP(S) URLs or
// legacy relative paths under BaseDir.
type FileHTTPFetcher struct {
	Client  *http.Client
	BaseDir string
}

func NewImageFetcher(baseDir string) *FileHTTPFetcher {
	return &FileHTTPFetcher{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseDir: baseDir,
	}
}

func (f *FileHTTPFetcher) Fetch(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}

	var raw []byte
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := f.Client.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch image %s: %v", ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image %s: status %d", ref, resp.StatusCode)
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %v", ref, err)
		}
	} else {
		// Legacy records store paths relative to the upload directory.
		path := filepath.Join(f.BaseDir, filepath.Clean("/"+ref))
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image file %s: %v", path, err)
		}
	}

	return normalizeJPEG(raw)
}

// normalizeJPEG decodes any supported format, downscales oversized images
// and re-encodes as JPEG so the draw phase deals with exactly one format.
func normalizeJPEG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxLogoWidth {
		h := bounds.Dy() * maxLogoWidth / bounds.Dx()
		scaled := image.NewRGBA(image.Rect(0, 0, maxLogoWidth, h))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("encode image: %v", err)
	}
	return buf.Bytes(), nil
}
