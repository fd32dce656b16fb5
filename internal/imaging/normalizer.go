package imaging

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "image/jpeg"
	_ "image/png"
)

// Normalizer prepares scanned resume pages for OCR: grayscale, denoise,
// deskew, contrast enhancement, and adaptive binarization.
type Normalizer struct {
	maxSkewDegrees float64
	minSkewDegrees float64
	threshWindow   int
	threshBias     int
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		maxSkewDegrees: 15.0,
		minSkewDegrees: 0.5,
		threshWindow:   15,
		threshBias:     2,
	}
}

// Decode reads a raster image in any supported format (PNG, JPEG, BMP, TIFF).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Preprocess runs the full normalization pipeline. Every stage works on the
// output of the previous one; stages that cannot improve the image leave it
// unchanged rather than failing.
func (n *Normalizer) Preprocess(img image.Image) *image.Gray {
	gray := toGray(img)
	denoised := medianFilter(gray)

	angle := n.estimateSkew(denoised)
	if math.Abs(angle) >= n.minSkewDegrees && math.Abs(angle) <= n.maxSkewDegrees {
		rotated := imaging.Rotate(denoised, angle, color.White)
		denoised = toGray(rotated)
	}

	enhanced := toGray(imaging.AdjustSigmoid(denoised, 0.5, 5.0))
	return n.binarize(enhanced)
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}

// medianFilter applies a 3x3 median filter. It smooths scanner noise while
// keeping glyph edges sharp, unlike a gaussian blur.
func medianFilter(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return src
	}
	out := image.NewGray(b)
	copy(out.Pix, src.Pix)

	var window [9]uint8
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := 0
			for dy := -1; dy <= 1; dy++ {
				row := (y+dy)*src.Stride + x - 1
				window[i] = src.Pix[row]
				window[i+1] = src.Pix[row+1]
				window[i+2] = src.Pix[row+2]
				i += 3
			}
			out.Pix[y*out.Stride+x] = median9(window)
		}
	}
	return out
}

func median9(v [9]uint8) uint8 {
	// insertion sort, tiny fixed input
	for i := 1; i < 9; i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
	return v[4]
}

// estimateSkew finds the dominant text-line angle by maximizing the variance
// of the row-ink projection profile over candidate angles. Positive result
// means the page should be rotated counter-clockwise by that many degrees.
func (n *Normalizer) estimateSkew(src *image.Gray) float64 {
	// Downsample first; skew estimation does not need full resolution.
	work := src
	if src.Bounds().Dy() > 400 {
		work = toGray(imaging.Resize(src, 0, 400, imaging.Box))
	}

	best, bestScore := 0.0, projectionScore(work, 0)
	for angle := -n.maxSkewDegrees; angle <= n.maxSkewDegrees; angle += 0.5 {
		if angle == 0 {
			continue
		}
		if s := projectionScore(work, angle); s > bestScore {
			best, bestScore = angle, s
		}
	}
	// Refine around the coarse winner.
	for angle := best - 0.4; angle <= best+0.4; angle += 0.1 {
		if s := projectionScore(work, angle); s > bestScore {
			best, bestScore = angle, s
		}
	}
	if math.Abs(best) < n.minSkewDegrees {
		return 0
	}
	return best
}

// projectionScore shears dark pixels by the candidate angle and measures the
// variance of the resulting row histogram. Straight text lines concentrate
// ink into few rows, producing high variance.
func projectionScore(img *image.Gray, degrees float64) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	tan := math.Tan(degrees * math.Pi / 180)
	hist := make([]int, 2*h+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] < 128 {
				row := y - int(float64(x)*tan) + h/2
				if row >= 0 && row < len(hist) {
					hist[row]++
				}
			}
		}
	}
	var sum, sumSq float64
	for _, c := range hist {
		sum += float64(c)
		sumSq += float64(c) * float64(c)
	}
	mean := sum / float64(len(hist))
	return sumSq/float64(len(hist)) - mean*mean
}

// binarize applies adaptive mean thresholding using an integral image, which
// handles uneven scan lighting better than a single global threshold.
func (n *Normalizer) binarize(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if w == 0 || h == 0 {
		return out
	}

	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.Pix[y*src.Stride+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	half := n.threshWindow / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-half), min(h-1, y+half)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-half), min(w-1, x+half)
			area := int64((y1 - y0 + 1) * (x1 - x0 + 1))
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / area
			if int64(src.Pix[y*src.Stride+x]) > mean-int64(n.threshBias) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
