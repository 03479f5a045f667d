package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasSize = 1080
	fontSize   = 40
)

// The body is drawn twice one pixel apart to thicken the strokes.
var textOrigins = []image.Point{{X: 201, Y: 151}, {X: 200, Y: 150}}

// RenderImage draws text in black on a white square canvas and returns it as
// a JPEG.
func RenderImage(text string) ([]byte, error) {
	ttf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.Black, Face: face}
	lineHeight := face.Metrics().Height
	lines := strings.Split(text, "\n")
	for _, o := range textOrigins {
		for i, line := range lines {
			d.Dot = fixed.Point26_6{
				X: fixed.I(o.X),
				Y: fixed.I(o.Y) + lineHeight*fixed.Int26_6(i),
			}
			d.DrawString(line)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
