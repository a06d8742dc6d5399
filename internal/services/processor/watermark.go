package processor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/datemark/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ShadowOffset is how far the shadow is shifted right and down.
const ShadowOffset = 2

var textColors = map[string]color.NRGBA{
	models.ColorWhite: {R: 255, G: 255, B: 255, A: 255},
	models.ColorBlack: {R: 0, G: 0, B: 0, A: 255},
	models.ColorRed:   {R: 255, G: 0, B: 0, A: 255},
	models.ColorBlue:  {R: 0, G: 0, B: 255, A: 255},
	models.ColorGreen: {R: 0, G: 128, B: 0, A: 255},
}

// TextColors returns the fill color for name and its contrasting shadow.
// Unknown names render white.
func TextColors(name string) (fill, shadow color.NRGBA) {
	fill, ok := textColors[name]
	if !ok {
		name = models.ColorWhite
		fill = textColors[name]
	}
	if name == models.ColorWhite {
		return fill, textColors[models.ColorBlack]
	}
	return fill, textColors[models.ColorWhite]
}

// addWatermark returns an opaque copy of img with text drawn on it.
func (p *ImageProcessor) addWatermark(img image.Image, text string) *image.NRGBA {
	watermarked := toRGB(img)
	p.drawTextWatermark(watermarked, text)
	return watermarked
}

// toRGB drops the alpha channel, keeping each pixel's color values.
func toRGB(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = 255
		return c
	})
}

// drawTextWatermark draws the shadow then the text, returning the text box origin.
func (p *ImageProcessor) drawTextWatermark(img draw.Image, text string) image.Point {
	bounds := img.Bounds()
	textBounds, _ := font.BoundString(p.face, text)
	textWidth := (textBounds.Max.X - textBounds.Min.X).Ceil()
	textHeight := (textBounds.Max.Y - textBounds.Min.Y).Ceil()

	pos := CalculatePosition(bounds.Dx(), bounds.Dy(), textWidth, textHeight, p.request.Position)
	pos = pos.Add(bounds.Min)

	fill, shadow := TextColors(p.request.Color)
	p.drawString(img, text, pos.Add(image.Pt(ShadowOffset, ShadowOffset)), textBounds.Min, shadow)
	p.drawString(img, text, pos, textBounds.Min, fill)

	return pos
}

// drawString places the top-left of the glyph box at origin; boxMin is the
// box corner relative to the dot.
func (p *ImageProcessor) drawString(img draw.Image, text string, origin image.Point, boxMin fixed.Point26_6, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot: fixed.Point26_6{
			X: fixed.I(origin.X) - boxMin.X,
			Y: fixed.I(origin.Y) - boxMin.Y,
		},
	}
	d.DrawString(text)
}
