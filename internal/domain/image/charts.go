package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"math"

	"github.com/fogleman/gg"

	"pixelsage-server/internal/platform/errors"
)

const (
	chartWidth  = 480
	chartHeight = 320
)

// RenderHistogram draws a 256-bin luminance histogram and returns it as a
// base64-encoded PNG.
func RenderHistogram(src image.Image) (string, error) {
	bins := lumaHistogram(src)

	var max float64
	for _, v := range bins {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	const margin = 20.0
	plotW := float64(chartWidth) - 2*margin
	plotH := float64(chartHeight) - 2*margin
	barW := plotW / 256.0

	dc.SetRGB(0.25, 0.45, 0.85)
	for i, v := range bins {
		h := v / max * plotH
		x := margin + float64(i)*barW
		y := float64(chartHeight) - margin - h
		dc.DrawRectangle(x, y, barW, h)
	}
	dc.Fill()

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, float64(chartHeight)-margin, float64(chartWidth)-margin, float64(chartHeight)-margin)
	dc.DrawLine(margin, margin, margin, float64(chartHeight)-margin)
	dc.Stroke()

	return encodeChart(dc)
}

// RenderColorPie draws a pie chart of the dominant color distribution and
// returns it as a base64-encoded PNG.
func RenderColorPie(colors []ColorInfo) (string, error) {
	size := chartHeight
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size)/2 - 16

	var total float64
	for _, c := range colors {
		total += c.Percent
	}
	if total == 0 {
		total = 1
	}

	angle := -math.Pi / 2
	for _, c := range colors {
		sweep := c.Percent / total * 2 * math.Pi
		r, g, b := parseHex(c.Hex)
		dc.SetRGB255(r, g, b)
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		angle += sweep
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()

	return encodeChart(dc)
}

func encodeChart(dc *gg.Context) (string, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", errors.Wrap(errors.KindProcessing, "render_chart", "encode png", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func lumaHistogram(src image.Image) [256]float64 {
	var bins [256]float64
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			idx := int(luma)
			if idx > 255 {
				idx = 255
			}
			bins[idx]++
		}
	}
	return bins
}

func parseHex(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	parse := func(s string) int {
		v := 0
		for _, c := range s {
			v <<= 4
			switch {
			case c >= '0' && c <= '9':
				v |= int(c - '0')
			case c >= 'a' && c <= 'f':
				v |= int(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v |= int(c-'A') + 10
			}
		}
		return v
	}
	return parse(hex[1:3]), parse(hex[3:5]), parse(hex[5:7])
}
