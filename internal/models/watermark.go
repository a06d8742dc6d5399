package models

// WatermarkRequest describes how the date text is rendered on every image of a run.
type WatermarkRequest struct {
	FontSize int    `json:"font_size" validate:"min=1"`
	Color    string `json:"color" validate:"oneof=white black red blue green"`
	Position string `json:"position" validate:"oneof=top-left top-right bottom-left bottom-right center"`
	Quality  int    `json:"quality" validate:"min=1,max=100"`
}

const (
	PositionTopLeft     = "top-left"
	PositionTopRight    = "top-right"
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
	PositionCenter      = "center"
)

const (
	ColorWhite = "white"
	ColorBlack = "black"
	ColorRed   = "red"
	ColorBlue  = "blue"
	ColorGreen = "green"
)

// FallbackText is burned in when no capture date can be read.
const FallbackText = "No-Date"
