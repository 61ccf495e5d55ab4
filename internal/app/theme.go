package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PicPylesTheme provides a custom theme for the application.
type PicPylesTheme struct{}

var _ fyne.Theme = (*PicPylesTheme)(nil)

func (t *PicPylesTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0xE6, G: 0xE6, B: 0xFF, A: 0xFF} // Pale blue canvas
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x33, G: 0x66, B: 0xCC, A: 0x60} // Rubber-band blue
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *PicPylesTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PicPylesTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PicPylesTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
