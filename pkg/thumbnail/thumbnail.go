package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"slices"
	"strconv"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidWidth is returned for a non-positive target width.
	ErrInvalidWidth = errors.New("thumbnail width must be positive")
	// ErrUnsupportedImage is returned when the source can't be decoded.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")
	// ErrEncode is returned when the resized image can't be encoded.
	ErrEncode = errors.New("failed to encode thumbnail")
)

// DefaultWidths are the preview sizes produced for every uploaded image,
// largest first.
var DefaultWidths = []int{500, 250, 100}

// DefaultMaxPixels bounds width*height of a source accepted by Decode,
// about 200 MB once decoded to RGBA.
const DefaultMaxPixels = 50_000_000

const jpegQuality = 85

// IsValidWidth reports whether width is one of DefaultWidths.
func IsValidWidth(width int) bool {
	return slices.Contains(DefaultWidths, width)
}

// Path returns the storage path of the thumbnail of original at width.
func Path(original string, width int) string {
	return original + "_" + strconv.Itoa(width)
}

// Source is a decoded image ready to be scaled to several widths.
type Source struct {
	img    image.Image
	format string
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	maxPixels int
}

// WithMaxPixels replaces DefaultMaxPixels. Non-positive values are ignored.
func WithMaxPixels(n int) DecodeOption {
	return func(o *decodeOptions) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// Decode parses src once so that several thumbnails can be derived from it.
// The header is checked first; sources larger than the pixel bound are
// rejected with ErrUnsupportedImage before any pixel is allocated.
func Decode(src []byte, opts ...DecodeOption) (*Source, error) {
	o := decodeOptions{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(o.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, o.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrUnsupportedImage
	}
	return &Source{img: img, format: format}, nil
}

// Format returns the name of the decoded format, e.g. "jpeg".
func (s *Source) Format() string {
	return s.format
}

// Scale renders the image width pixels wide, preserving the aspect ratio.
// Returns the encoded thumbnail and its MIME type.
func (s *Source) Scale(width int) ([]byte, string, error) {
	if width <= 0 {
		return nil, "", ErrInvalidWidth
	}

	bounds := s.img.Bounds()
	height := max(1, bounds.Dy()*width/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), s.img, bounds, draw.Over, nil)

	var (
		buf      bytes.Buffer
		err      error
		mimeType = "image/png"
	)
	switch s.format {
	case "jpeg":
		mimeType = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return buf.Bytes(), mimeType, nil
}

// Generate decodes src and scales it to width.
func Generate(src []byte, width int, opts ...DecodeOption) ([]byte, string, error) {
	if width <= 0 {
		return nil, "", ErrInvalidWidth
	}
	s, err := Decode(src, opts...)
	if err != nil {
		return nil, "", err
	}
	return s.Scale(width)
}
