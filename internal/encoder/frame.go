package encoder

import "image"

// PackRGB24 copies img into dst as packed 8-bit R, G, B triplets, dropping
// alpha. Go images are stored RGBA while the encoder pipe is declared rgb24,
// so every byte must be repacked. dst is grown if it is too small.
func PackRGB24(dst []byte, img *image.RGBA) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	size := width * height * 3
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	dstIdx := 0
	for y := 0; y < height; y++ {
		// Direct access to RGBA pixel buffer (4 bytes per pixel)
		rowStart := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			pixelIdx := rowStart + x*4
			dst[dstIdx] = img.Pix[pixelIdx]     // R
			dst[dstIdx+1] = img.Pix[pixelIdx+1] // G
			dst[dstIdx+2] = img.Pix[pixelIdx+2] // B
			dstIdx += 3
		}
	}

	return dst
}
