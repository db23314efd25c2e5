package ui

// Layout constants for panel sizing
const (
	HeaderHeight = 1
	FooterHeight = 2

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1
	PanelPaddingV    = 0

	// Column ratios of the main body
	MenuRatio     = 0.26
	ControlsRatio = 0.38

	// ChartMinHeight is the smallest height an expanded chart panel gets.
	ChartMinHeight = 8

	// Responsive breakpoints
	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// Layout is the computed geometry of the root view.
type Layout struct {
	Width, Height int
	BodyHeight    int
	MenuWidth     int
	ControlsWidth int
	SideWidth     int
	Compact       bool
}

// NewLayout computes the geometry for a terminal size. Compact layouts drop
// the side column and stack the overview and chart under the controls.
func NewLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height, Compact: width < CompactModeWidth}
	l.BodyHeight = max(height-HeaderHeight-FooterHeight, 1)
	if l.Compact {
		l.MenuWidth = int(float64(width) * 0.35)
		l.ControlsWidth = width - l.MenuWidth
		l.SideWidth = l.ControlsWidth
		return l
	}
	l.MenuWidth = int(float64(width) * MenuRatio)
	l.ControlsWidth = int(float64(width) * ControlsRatio)
	l.SideWidth = width - l.MenuWidth - l.ControlsWidth
	return l
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return max(panelWidth-PanelBorderWidth*2-PanelPaddingH*2, 1)
}

// PanelContentHeight returns the content height inside a bordered panel
func PanelContentHeight(panelHeight int) int {
	return max(panelHeight-PanelBorderWidth*2-PanelPaddingV*2, 1)
}
