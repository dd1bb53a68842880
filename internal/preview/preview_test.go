package preview_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/preview"
)

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRender(t *testing.T) {
	var cases = []struct {
		name           string
		width, height  int
		opts           backend.PreviewOptions
		expectedWidth  int
		expectedHeight int
	}{
		{"Crops to fill both dimensions", 200, 100, backend.PreviewOptions{Width: 50, Height: 50, Gravity: backend.GravityTop}, 50, 50},
		{"Keeps aspect ratio with a single dimension", 200, 100, backend.PreviewOptions{Width: 100}, 100, 50},
		{"Never enlarges", 200, 100, backend.PreviewOptions{Width: 2000, Height: 2000}, 100, 100},
		{"Keeps original size without dimensions", 200, 100, backend.PreviewOptions{}, 200, 100},
	}

	for _, tcase := range cases {
		t.Run(tcase.name, func(t *testing.T) {
			rendered, err := preview.Render(bytes.NewReader(pngImage(t, tcase.width, tcase.height)), tcase.opts)
			if err != nil {
				t.Fatalf("Unexpected error: %s", err)
			}
			img, format, err := image.DecodeConfig(bytes.NewReader(rendered))
			if err != nil {
				t.Fatalf("Unexpected error decoding preview: %s", err)
			}
			if format != "jpeg" {
				t.Errorf("Expected a jpeg, got %s", format)
			}
			if img.Width != tcase.expectedWidth || img.Height != tcase.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tcase.expectedWidth, tcase.expectedHeight, img.Width, img.Height)
			}
		})
	}
}

func TestRenderUnsupported(t *testing.T) {
	_, err := preview.Render(strings.NewReader("not an image"), backend.PreviewOptions{Width: 10})
	if !errors.Is(err, preview.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}
