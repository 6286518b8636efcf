package services

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// LocalImageStore keeps product images on local disk under a single uploads
// directory and serves them by URL path. Files are renamed to a UUID on
// save, so the stored reference never leaks client-controlled names.
type LocalImageStore struct {
	dir      string
	urlBase  string
	maxWidth int
}

func NewLocalImageStore(dir, urlBase string, maxWidth int) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalImageStore{
		dir:      dir,
		urlBase:  strings.TrimRight(urlBase, "/"),
		maxWidth: maxWidth,
	}, nil
}

// Dir returns the directory served as static uploads.
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Save decodes, downscales and stores an uploaded image, returning the URL
// reference to persist on the product. Images wider than maxWidth are
// resized; everything is re-encoded as JPEG except PNGs, which stay PNG.
func (s *LocalImageStore) Save(r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = s.downscale(img)

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	filename := uuid.New().String() + ext

	out, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if ext == ".png" {
		err = png.Encode(out, img)
	} else {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return s.urlBase + "/" + filename, nil
}

// Remove deletes the stored file behind a reference. Unknown references are
// not an error; the file may already be gone.
func (s *LocalImageStore) Remove(ref string) error {
	filename := path.Base(ref)
	if filename == "." || filename == "/" || filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	if err == nil {
		log.Printf("Removed image file %s", filename)
	}
	return nil
}

func (s *LocalImageStore) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	if s.maxWidth <= 0 || bounds.Dx() <= s.maxWidth {
		return img
	}
	height := bounds.Dy() * s.maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
