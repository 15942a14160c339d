package raster

import (
	"fmt"
	"image"
	"image/color"
)

// ToImage converts an 8 bit single band raster to image.Gray and an 8 bit three band
// raster to image.RGBA
func ToImage(r Raster) (image.Image, error) {
	p, ok := r.(*Plane[uint8])
	if !ok {
		return nil, fmt.Errorf("raster must be 8 bit to convert, got %v", r.Kind())
	}
	rect := image.Rect(0, 0, p.W, p.H)
	switch p.B {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, p.Pix)
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for y := 0; y < p.H; y++ {
			for x := 0; x < p.W; x++ {
				img.SetRGBA(x, y, color.RGBA{R: p.At(x, y, 0), G: p.At(x, y, 1), B: p.At(x, y, 2), A: 0xFF})
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported band count %d", p.B)
	}
}
