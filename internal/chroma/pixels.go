package chroma

// pixelAt reads the RGB color at (x, y) from a row-major RGBA buffer.
//
// The buffer length is allowed to disagree with width*height*4: any read
// that would fall outside the buffer or the logical frame reports
// ok=false and the caller skips the pixel. Alpha is ignored.
func pixelAt(pixels []byte, width, height, x, y int) (RGB, bool) {
	if x < 0 || y < 0 || x >= width || y >= height {
		return RGB{}, false
	}
	idx := (y*width + x) * 4
	if idx < 0 || idx+2 >= len(pixels) {
		return RGB{}, false
	}
	return RGB{R: pixels[idx], G: pixels[idx+1], B: pixels[idx+2]}, true
}
