package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"log/slog"
	"net/http"
	"strings"

	"devcamper/internal/models"
	"devcamper/internal/observability"
	"devcamper/internal/repository"
	"devcamper/internal/storage"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultMaxPhotoBytes = 1000000
	PhotoMaxSize         = 1200
	JPEGQuality          = 82
	WebPQuality          = 70
)

type UploadPhotoInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// PhotoService normalizes bootcamp photos and hands them to a PhotoStore.
type PhotoService struct {
	bootcamps   repository.BootcampRepository
	store       storage.PhotoStore
	maxBytes    int64
	webpEnabled func() bool
	logger      *slog.Logger
}

func NewPhotoService(
	bootcamps repository.BootcampRepository,
	store storage.PhotoStore,
	maxBytes int64,
	webpEnabled func() bool,
	logger *slog.Logger,
) *PhotoService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &PhotoService{
		bootcamps:   bootcamps,
		store:       store,
		maxBytes:    maxBytes,
		webpEnabled: webpEnabled,
		logger:      loggerOrDefault(logger),
	}
}

// PhotoName is the stored JPEG name for a bootcamp's photo.
func PhotoName(bootcampID uint) string {
	return fmt.Sprintf("photo_%d.jpg", bootcampID)
}

// Upload stores a resized JPEG (and optionally a WebP variant) and points the
// bootcamp's photo at it. It returns the stored file name.
func (s *PhotoService) Upload(ctx context.Context, actor Actor, bootcampID uint, in UploadPhotoInput) (string, error) {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "PhotoService", "Upload")
	defer span.End()

	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return "", err
	}
	if !actor.Owns(b.UserID) {
		return "", forbidden(actor, "update", "bootcamp")
	}

	name, err := s.save(ctx, b.ID, in)
	observability.PhotoUploads.WithLabelValues(s.store.Driver(), observability.ResultLabel(err)).Inc()
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if err := s.bootcamps.UpdatePhoto(ctx, b.ID, name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *PhotoService) save(ctx context.Context, bootcampID uint, in UploadPhotoInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("Please upload a file")
	}
	if !strings.HasPrefix(normalizeContentType(in.ContentType), "image/") ||
		!strings.HasPrefix(http.DetectContentType(in.Content), "image/") {
		return "", models.NewValidationError("Please upload an image file")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return "", models.NewValidationError(fmt.Sprintf("Please upload an image less than %d", s.maxBytes))
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Please upload a valid image file")
	}
	master := resizeToFit(flatten(decoded), PhotoMaxSize, PhotoMaxSize)

	jpg, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	name := PhotoName(bootcampID)
	if err := s.store.Put(ctx, name, jpg, "image/jpeg"); err != nil {
		return "", models.NewInternalError(fmt.Errorf("store %s: %w", name, err))
	}

	if s.webpEnabled == nil || s.webpEnabled() {
		variant := strings.TrimSuffix(name, ".jpg") + ".webp"
		encoded, err := encodeWebP(master, WebPQuality)
		if err == nil {
			err = s.store.Put(ctx, variant, encoded, "image/webp")
		}
		if err != nil {
			s.logger.WarnContext(ctx, "webp variant not stored",
				slog.Uint64("bootcamp_id", uint64(bootcampID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return name, nil
}

// flatten paints src over white so transparent pixels do not turn black in JPEG.
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
