package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	passportWidth       = 350
	passportHeight      = 450
	passportJPEGQuality = 90

	// minSourceDimension rejects degenerate inputs before the crop math runs
	minSourceDimension = 10
)

// normalizePassport converts decoded image bytes of any aspect ratio into a
// 350x450 passport-format JPEG at quality 90.
//
// The source is center-cropped to the 3.5:4.5 target ratio and resampled
// onto a white canvas in a single Catmull-Rom pass, so crop and scale never
// go through an intermediate copy.
func normalizePassport(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("Failed to process image data")
	}

	b := src.Bounds()
	if b.Dx() < minSourceDimension || b.Dy() < minSourceDimension {
		return nil, errors.New("Photo is too small to process")
	}

	crop := passportCropRect(b)

	dst := image.NewRGBA(image.Rect(0, 0, passportWidth, passportHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: passportJPEGQuality}); err != nil {
		return nil, errors.New("Failed to save processed photo")
	}

	return buf.Bytes(), nil
}

// passportCropRect computes the centered crop of b that matches the
// 350:450 target ratio. Relatively wider sources keep their full height
// and lose width from both sides; taller sources keep their full width and
// lose height from top and bottom.
func passportCropRect(b image.Rectangle) image.Rectangle {
	w := float64(b.Dx())
	h := float64(b.Dy())

	const targetAR = float64(passportWidth) / float64(passportHeight)

	var cropW, cropH, cropX, cropY float64
	if w/h > targetAR {
		cropH = h
		cropW = cropH * targetAR
		cropX = (w - cropW) / 2
		cropY = 0
	} else {
		cropW = w
		cropH = cropW / targetAR
		cropX = 0
		cropY = (h - cropH) / 2
	}

	return image.Rect(
		b.Min.X+int(cropX),
		b.Min.Y+int(cropY),
		b.Min.X+int(cropX+cropW),
		b.Min.Y+int(cropY+cropH),
	)
}
