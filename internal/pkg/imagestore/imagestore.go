package imagestore

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxImageWidth  = 1280
	maxImageHeight = 960
	thumbSize      = 200
	jpegQuality    = 85
)

// Store saves vehicle images on the local file system. Images are
// re-encoded as JPEG with a bounded size, and a thumbnail is written
// next to the original.
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir, creating it if needed.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveVehicleImage stores the image for a vehicle and returns the relative
// URI of the saved file. The thumbnail shares the name with a _thumb suffix.
func (s *Store) SaveVehicleImage(vehicleID int64, content io.Reader) (string, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Bound the stored size; small images pass through untouched.
	bounds := img.Bounds()
	if bounds.Dx() > maxImageWidth || bounds.Dy() > maxImageHeight {
		img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)
	}
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	name := uuid.New().String()
	relDir := filepath.Join("vehicles", fmt.Sprintf("%d", vehicleID))
	if err := os.MkdirAll(filepath.Join(s.baseDir, relDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create vehicle image directory: %w", err)
	}

	relPath := filepath.Join(relDir, name+".jpg")
	if err := s.writeJPEG(relPath, img); err != nil {
		return "", err
	}

	thumbPath := filepath.Join(relDir, name+"_thumb.jpg")
	if err := s.writeJPEG(thumbPath, thumb); err != nil {
		// Keep the original usable even if the thumbnail write failed.
		return filepath.ToSlash(relPath), nil
	}

	return filepath.ToSlash(relPath), nil
}

// Delete removes a previously stored image and its thumbnail.
func (s *Store) Delete(relPath string) error {
	full := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	ext := filepath.Ext(full)
	thumb := full[:len(full)-len(ext)] + "_thumb" + ext
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}

func (s *Store) writeJPEG(relPath string, img image.Image) error {
	file, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
