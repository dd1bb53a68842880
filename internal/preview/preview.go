// Package preview renders resized copies of uploaded images.
package preview

import (
	"bytes"
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/svera/snapgram/internal/backend"
)

const (
	MaxDimension   = 4000
	DefaultQuality = 100
)

var ErrUnsupported = errors.New("image format not supported")

var anchors = map[backend.Gravity]imaging.Anchor{
	backend.GravityCenter:      imaging.Center,
	backend.GravityTop:         imaging.Top,
	backend.GravityTopLeft:     imaging.TopLeft,
	backend.GravityTopRight:    imaging.TopRight,
	backend.GravityLeft:        imaging.Left,
	backend.GravityRight:       imaging.Right,
	backend.GravityBottom:      imaging.Bottom,
	backend.GravityBottomLeft:  imaging.BottomLeft,
	backend.GravityBottomRight: imaging.BottomRight,
}

// Render decodes src and encodes it as a JPEG fitting opts. When both
// dimensions are given the image is cropped to fill them, keeping the area
// pointed by the gravity; when only one is, the aspect ratio is kept. Images
// are never enlarged beyond their original size.
func Render(src io.Reader, opts backend.PreviewOptions) ([]byte, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Join(ErrUnsupported, err)
	}

	width, height := fit(img.Bounds(), opts.Width, opts.Height)
	var dst image.Image = img
	switch {
	case width > 0 && height > 0:
		anchor, ok := anchors[opts.Gravity]
		if !ok {
			anchor = imaging.Center
		}
		dst = imaging.Fill(img, width, height, anchor, imaging.Lanczos)
	case width > 0 || height > 0:
		dst = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit clamps the requested dimensions to the image size and MaxDimension,
// scaling both down together so the requested aspect ratio is kept
func fit(bounds image.Rectangle, width, height int) (int, int) {
	width, height = max(width, 0), max(height, 0)
	limitWidth := min(bounds.Dx(), MaxDimension)
	limitHeight := min(bounds.Dy(), MaxDimension)

	if width > limitWidth {
		if height > 0 {
			height = height * limitWidth / width
		}
		width = limitWidth
	}
	if height > limitHeight {
		if width > 0 {
			width = width * limitHeight / height
		}
		height = limitHeight
	}
	return width, height
}
