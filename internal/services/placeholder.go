package services

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// placeholderSVG is the generic head-and-shoulders silhouette rendered as
// the default photo for students without one.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 70 90">
  <rect width="70" height="90" fill="#e8ebee"/>
  <circle cx="35" cy="34" r="14" fill="#aab4be"/>
  <path d="M 11 90 Q 11 58 35 58 Q 59 58 59 90 Z" fill="#aab4be"/>
</svg>`

// EnsurePlaceholderPhoto rasterizes the embedded silhouette SVG into
// <baseDir>/placeholder.jpg at passport dimensions if it does not already
// exist. Best-effort: failures are logged and photo resolution simply
// keeps returning a path that does not exist yet.
func EnsurePlaceholderPhoto(baseDir string) {
	path := filepath.Join(baseDir, PlaceholderPhotoPath)
	if _, err := os.Stat(path); err == nil {
		return
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		log.Printf("Placeholder photo: could not create upload dir: %v", err)
		return
	}

	data, err := renderPlaceholder(passportWidth, passportHeight)
	if err != nil {
		log.Printf("Placeholder photo: render failed: %v", err)
		return
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Placeholder photo: write failed: %v", err)
		return
	}
	log.Printf("Placeholder photo created at %s", path)
}

// renderPlaceholder rasterizes the silhouette SVG onto a white canvas of
// the given size and encodes it as JPEG.
func renderPlaceholder(width, height int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(placeholderSVG)))
	if err != nil {
		return nil, err
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(width), float64(height)
	}

	// Scale to fill the canvas while preserving the icon's aspect ratio
	scale := float64(width) / w
	if s := float64(height) / h; s < scale {
		scale = s
	}
	outW := int(w * scale)
	outH := int(h * scale)
	offsetX := (width - outW) / 2
	offsetY := (height - outH) / 2

	icon.SetTarget(float64(offsetX), float64(offsetY), float64(outW), float64(outH))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: passportJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
