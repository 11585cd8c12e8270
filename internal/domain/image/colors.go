package image

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sort"
)

const (
	kmeansSeed     = 42
	kmeansMaxIters = 20
)

type point3 struct {
	r, g, b float64
}

// DominantColors clusters the image pixels into k groups and returns the
// cluster centers as hex colors with coverage percentages, sorted by
// coverage descending. Results are deterministic for a given image.
func DominantColors(src image.Image, k int) []ColorInfo {
	if k <= 0 {
		return nil
	}

	pixels := flattenPixels(src)
	if len(pixels) == 0 {
		return nil
	}
	if len(pixels) < k {
		k = len(pixels)
	}

	centers, assignments := kmeans(pixels, k)

	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}

	// All k centers are reported, matching the clustering contract: on a
	// near-uniform image the degenerate clusters show up with ~0% coverage
	// rather than being dropped.
	colors := make([]ColorInfo, 0, k)
	total := float64(len(pixels))
	for i, c := range centers {
		colors = append(colors, ColorInfo{
			Hex:     fmt.Sprintf("#%02x%02x%02x", clampByte(c.r), clampByte(c.g), clampByte(c.b)),
			Percent: math.Round(float64(counts[i])/total*10000) / 100,
		})
	}

	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Percent > colors[j].Percent
	})
	return colors
}

func flattenPixels(src image.Image) []point3 {
	bounds := src.Bounds()
	pixels := make([]point3, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			pixels = append(pixels, point3{
				r: float64(r >> 8),
				g: float64(g >> 8),
				b: float64(b >> 8),
			})
		}
	}
	return pixels
}

func kmeans(pixels []point3, k int) ([]point3, []int) {
	rng := rand.New(rand.NewSource(kmeansSeed))

	centers := make([]point3, k)
	for i := range centers {
		centers[i] = pixels[rng.Intn(len(pixels))]
	}

	assignments := make([]int, len(pixels))
	for iter := 0; iter < kmeansMaxIters; iter++ {
		changed := false
		for i, p := range pixels {
			best := 0
			bestDist := math.MaxFloat64
			for j, c := range centers {
				d := sqDist(p, c)
				if d < bestDist {
					bestDist = d
					best = j
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([]point3, k)
		counts := make([]int, k)
		for i, p := range pixels {
			a := assignments[i]
			sums[a].r += p.r
			sums[a].g += p.g
			sums[a].b += p.b
			counts[a]++
		}
		for j := range centers {
			if counts[j] == 0 {
				centers[j] = pixels[rng.Intn(len(pixels))]
				continue
			}
			n := float64(counts[j])
			centers[j] = point3{sums[j].r / n, sums[j].g / n, sums[j].b / n}
		}
	}
	return centers, assignments
}

func sqDist(a, b point3) float64 {
	dr := a.r - b.r
	dg := a.g - b.g
	db := a.b - b.b
	return dr*dr + dg*dg + db*db
}
