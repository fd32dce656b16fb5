package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic "scanned text" page: dark horizontal bars on a light background,
// optionally rotated by the given angle.
func textPage(w, h int, skewDegrees float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	rad := skewDegrees * math.Pi / 180
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// position along the (possibly tilted) line axis
			line := float64(y) - float64(x)*math.Tan(rad)
			if int(line)%12 < 4 && line > 10 && line < float64(h)-10 {
				img.SetGray(x, y, color.Gray{Y: 30})
			} else {
				img.SetGray(x, y, color.Gray{Y: 225})
			}
		}
	}
	return img
}

func TestPreprocessProducesBinaryOutput(t *testing.T) {
	n := NewNormalizer()
	out := n.Preprocess(textPage(200, 200, 0))

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := out.GrayAt(x, y).Y
			if v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, v)
			}
		}
	}
}

func TestEstimateSkewDetectsTilt(t *testing.T) {
	n := NewNormalizer()

	straight := n.estimateSkew(textPage(300, 300, 0))
	assert.InDelta(t, 0, straight, 0.6)

	tilted := n.estimateSkew(textPage(300, 300, 3))
	assert.InDelta(t, 3, math.Abs(tilted), 1.0)
}

func TestEstimateSkewIgnoresExtremeAngles(t *testing.T) {
	n := NewNormalizer()
	// A tilt past the correction bound must not produce a wild estimate
	// that would rotate the page into garbage.
	got := n.estimateSkew(textPage(300, 300, 40))
	assert.LessOrEqual(t, math.Abs(got), 15.0)
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, textPage(20, 20, 0)))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())

	_, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestMedianFilterRemovesSaltNoise(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 21, 21))
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	// lone dark speck
	img.SetGray(10, 10, color.Gray{Y: 0})

	out := medianFilter(img)
	assert.Equal(t, uint8(255), out.GrayAt(10, 10).Y)
}
