// Package render draws the certificate document. It has no side effects.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"academix/internal/certificate/models"
)

const (
	width  = 1200
	height = 850
	margin = 40
)

var (
	background = color.RGBA{R: 0xfb, G: 0xf8, B: 0xf0, A: 0xff}
	accent     = color.RGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff}
	ink        = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	muted      = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

type line struct {
	text  string
	y     int
	scale int
	color color.Color
}

// Render returns the PNG encoding of the certificate.
func Render(data models.CertificateData) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	drawFrame(img, margin, 6, accent)
	drawFrame(img, margin+16, 2, accent)

	lines := []line{
		{text: "CERTIFICATE OF COMPLETION", y: 170, scale: 5, color: accent},
		{text: "This certifies that", y: 280, scale: 2, color: muted},
		{text: data.StudentName, y: 360, scale: 5, color: ink},
		{text: "has successfully completed", y: 440, scale: 2, color: muted},
		{text: data.CourseName, y: 510, scale: 4, color: ink},
		{text: fmt.Sprintf("%s  |  Score %.1f", data.ExamTitle, data.Score), y: 580, scale: 2, color: ink},
		{text: "Issued " + data.IssuedAt.UTC().Format("January 2, 2006") + " by " + data.Issuer, y: 680, scale: 2, color: muted},
		{text: "Certificate ID " + data.CertificateID.String(), y: 760, scale: 1, color: muted},
	}
	if data.ExpiresAt != nil {
		lines = append(lines, line{text: "Valid until " + data.ExpiresAt.UTC().Format("January 2, 2006"), y: 715, scale: 2, color: muted})
	}
	for _, l := range lines {
		drawCentered(img, l.text, l.y, l.scale, l.color)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawFrame(img *image.RGBA, inset, thickness int, c color.Color) {
	src := image.NewUniform(c)
	b := img.Bounds().Inset(inset)
	edges := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+thickness),
		image.Rect(b.Min.X, b.Max.Y-thickness, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+thickness, b.Max.Y),
		image.Rect(b.Max.X-thickness, b.Min.Y, b.Max.X, b.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e, src, image.Point{}, draw.Src)
	}
}

// drawCentered renders text with the fixed 7x13 face and scales it up, since
// the face has a single size.
func drawCentered(dst *image.RGBA, text string, baselineY, scale int, c color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	glyphHeight := face.Metrics().Height.Ceil()

	small := image.NewRGBA(image.Rect(0, 0, textWidth, glyphHeight))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	w, h := textWidth*scale, glyphHeight*scale
	if w > width-2*margin-40 {
		w = width - 2*margin - 40
	}
	x := (width - w) / 2
	target := image.Rect(x, baselineY-h, x+w, baselineY)
	draw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), draw.Over, nil)
}
