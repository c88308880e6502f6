package rasterizer

import (
	"image"
	"math"
)

// gaussianKernel returns a normalized 1D Gaussian kernel with radius 3*sigma.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3.0 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		x := float64(i - radius)
		g := math.Exp(-x * x / (2.0 * sigma * sigma))
		kernel[i] = g
		sum += g
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurPass convolves the image with the kernel along one axis, clamping
// samples to the edge. horizontal selects the axis.
func blurPass(img *image.RGBA, kernel []float64, horizontal bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	radius := len(kernel) / 2

	tmp := make([]float64, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx = x + k
					if sx < 0 {
						sx = 0
					} else if width <= sx {
						sx = width - 1
					}
				} else {
					sy = y + k
					if sy < 0 {
						sy = 0
					} else if height <= sy {
						sy = height - 1
					}
				}
				c := img.RGBAAt(bounds.Min.X+sx, bounds.Min.Y+sy)
				w := kernel[k+radius]
				r += float64(c.R) * w
				g += float64(c.G) * w
				b += float64(c.B) * w
			}
			i := (y*width + x) * 3
			tmp[i], tmp[i+1], tmp[i+2] = r, g, b
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			c := img.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			c.R = uint8(math.Min(255.0, tmp[i]+0.5))
			c.G = uint8(math.Min(255.0, tmp[i+1]+0.5))
			c.B = uint8(math.Min(255.0, tmp[i+2]+0.5))
			img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, c)
		}
	}
}

// Blur applies a separable Gaussian blur with standard deviation sigma to the
// image in place. Alpha is left untouched; the raster is opaque.
func Blur(img *image.RGBA, sigma float64) {
	BlurXY(img, sigma, sigma)
}

// BlurXY blurs with independent sigmas per axis. Non-positive sigmas skip
// that axis.
func BlurXY(img *image.RGBA, sigmaX, sigmaY float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	if 0.0 < sigmaX {
		blurPass(img, gaussianKernel(sigmaX), true)
	}
	if 0.0 < sigmaY {
		blurPass(img, gaussianKernel(sigmaY), false)
	}
}
