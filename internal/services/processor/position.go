package processor

import (
	"image"

	"github.com/phambaophuc/datemark/internal/models"
)

// WatermarkMargin is the distance in pixels kept from the relevant edges.
const WatermarkMargin = 20

// CalculatePosition returns the top-left corner of the text box for the
// given position keyword. Unknown keywords fall back to top-left.
func CalculatePosition(imgWidth, imgHeight, textWidth, textHeight int, position string) image.Point {
	switch position {
	case models.PositionTopLeft:
		return image.Pt(WatermarkMargin, WatermarkMargin)
	case models.PositionTopRight:
		return image.Pt(imgWidth-textWidth-WatermarkMargin, WatermarkMargin)
	case models.PositionBottomLeft:
		return image.Pt(WatermarkMargin, imgHeight-textHeight-WatermarkMargin)
	case models.PositionBottomRight:
		return image.Pt(imgWidth-textWidth-WatermarkMargin, imgHeight-textHeight-WatermarkMargin)
	case models.PositionCenter:
		return image.Pt(floorDiv(imgWidth-textWidth, 2), floorDiv(imgHeight-textHeight, 2))
	default:
		return image.Pt(WatermarkMargin, WatermarkMargin)
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
