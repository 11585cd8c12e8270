package image

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	contrastFactor  = 1.2
	sharpnessFactor = 1.1

	darkThreshold       = 30.0
	brightThreshold     = 225.0
	lowContrastThreshold = 20.0
	minResolutionArea   = 200 * 200
)

// Enhance applies a mild contrast and sharpness boost before captioning.
func Enhance(src image.Image) *image.RGBA {
	contrasted := adjustContrast(src, contrastFactor)
	return sharpen(contrasted, sharpnessFactor-1.0)
}

func adjustContrast(src image.Image, factor float64) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			dst.SetRGBA(x, y, color.RGBA{
				R: scaleAround(uint8(r>>8), factor),
				G: scaleAround(uint8(g>>8), factor),
				B: scaleAround(uint8(b>>8), factor),
				A: uint8(a >> 8),
			})
		}
	}
	return dst
}

func scaleAround(v uint8, factor float64) uint8 {
	scaled := (float64(v)-128.0)*factor + 128.0
	return clampByte(scaled)
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// sharpen blends a 3x3 laplacian pass into the source at the given strength.
func sharpen(src *image.RGBA, strength float64) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if x == bounds.Min.X || x == bounds.Max.X-1 ||
				y == bounds.Min.Y || y == bounds.Max.Y-1 {
				dst.SetRGBA(x, y, src.RGBAAt(x, y))
				continue
			}
			c := src.RGBAAt(x, y)
			dst.SetRGBA(x, y, color.RGBA{
				R: sharpenChannel(src, x, y, 0, strength),
				G: sharpenChannel(src, x, y, 1, strength),
				B: sharpenChannel(src, x, y, 2, strength),
				A: c.A,
			})
		}
	}
	return dst
}

func sharpenChannel(src *image.RGBA, x, y, ch int, strength float64) uint8 {
	at := func(dx, dy int) float64 {
		c := src.RGBAAt(x+dx, y+dy)
		switch ch {
		case 0:
			return float64(c.R)
		case 1:
			return float64(c.G)
		default:
			return float64(c.B)
		}
	}
	center := at(0, 0)
	laplacian := 4*center - at(-1, 0) - at(1, 0) - at(0, -1) - at(0, 1)
	return clampByte(center + strength*laplacian)
}

// Quality computes advisory brightness and contrast metrics with flags for
// conditions that commonly degrade model output.
func Quality(src image.Image) QualityReport {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var sum, sumSq float64
	n := float64(width * height)
	if n == 0 {
		return QualityReport{Width: width, Height: height, Flags: []string{"low_resolution"}}
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			sum += luma
			sumSq += luma * luma
		}
	}

	brightness := sum / n
	variance := sumSq/n - brightness*brightness
	if variance < 0 {
		variance = 0
	}
	contrast := math.Sqrt(variance)

	report := QualityReport{
		Brightness: brightness,
		Contrast:   contrast,
		Width:      width,
		Height:     height,
		Flags:      []string{},
	}
	if brightness < darkThreshold {
		report.Flags = append(report.Flags, "too_dark")
	}
	if brightness > brightThreshold {
		report.Flags = append(report.Flags, "too_bright")
	}
	if contrast < lowContrastThreshold {
		report.Flags = append(report.Flags, "low_contrast")
	}
	if width*height < minResolutionArea {
		report.Flags = append(report.Flags, "low_resolution")
	}
	return report
}

// Downsample scales the image so its longest edge is at most maxEdge,
// keeping aspect ratio. Images already small enough are returned as-is.
func Downsample(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxEdge
		nh = h * maxEdge / w
	} else {
		nh = maxEdge
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
