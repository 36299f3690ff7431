// Package label renders pathology sample labels.
//
// A label is a Code128 barcode whose payload is the path id, verbatim, with
// the same string printed under it. Intake and reprint share one Renderer so
// that physical labels cannot drift between the two flows.
package label

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"image/color"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// ErrEmptyValue is returned when asked to render an empty label.
var ErrEmptyValue = errors.New("label: empty value")

// Layout fixes every dimension of the preview and the printed label.
type Layout struct {
	Heading string

	// On-screen preview.
	PreviewModuleWidth float64
	PreviewBarHeight   float64
	PreviewMargin      float64
	PreviewFontSize    float64

	// Printed barcode, drawn without human-readable text.
	PrintModuleWidth float64
	PrintBarHeight   float64
	PrintMargin      float64

	// Physical label, in millimetres and CSS pixels.
	LabelWidthMM    float64
	LabelHeightMM   float64
	LabelPaddingMM  float64
	BarcodeWidthMM  float64
	BarcodeHeightMM float64
	HeadingFontPx   int
	TextFontPx      int

	// CleanupDelay is how long the injected print fragment stays in the
	// document after the print dialog is opened.
	CleanupDelay time.Duration
}

// DefaultLayout is the 40mm x 25mm "APH" label.
func DefaultLayout() Layout {
	return Layout{
		Heading:            "APH",
		PreviewModuleWidth: 2,
		PreviewBarHeight:   60,
		PreviewMargin:      10,
		PreviewFontSize:    20,
		PrintModuleWidth:   2.5,
		PrintBarHeight:     40,
		PrintMargin:        5,
		LabelWidthMM:       40,
		LabelHeightMM:      25,
		LabelPaddingMM:     3,
		BarcodeWidthMM:     25,
		BarcodeHeightMM:    25,
		HeadingFontPx:      30,
		TextFontPx:         12,
		CleanupDelay:       500 * time.Millisecond,
	}
}

// Renderer builds previews and print fragments from one Layout.
type Renderer struct {
	layout Layout
}

// NewRenderer returns a Renderer. Zero-valued layout fields are not defaulted;
// pass DefaultLayout() and override what differs.
func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout}
}

// Layout returns the layout the renderer was built with.
func (r *Renderer) Layout() Layout { return r.layout }

// Encode returns the Code128 symbol for value.
func Encode(value string) (barcode.Barcode, error) {
	if value == "" {
		return nil, ErrEmptyValue
	}
	bc, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("label: encode %q: %w", value, err)
	}
	return bc, nil
}

// svgOptions controls a single SVG drawing.
type svgOptions struct {
	moduleWidth float64
	barHeight   float64
	margin      float64
	fontSize    float64 // 0 omits the human-readable text
}

// SVG renders value as a standalone preview-sized SVG document.
func (r *Renderer) SVG(value string) ([]byte, error) {
	bc, err := Encode(value)
	if err != nil {
		return nil, err
	}
	return drawSVG(bc, value, r.previewOptions()), nil
}

func (r *Renderer) previewOptions() svgOptions {
	return svgOptions{
		moduleWidth: r.layout.PreviewModuleWidth,
		barHeight:   r.layout.PreviewBarHeight,
		margin:      r.layout.PreviewMargin,
		fontSize:    r.layout.PreviewFontSize,
	}
}

func (r *Renderer) printOptions() svgOptions {
	return svgOptions{
		moduleWidth: r.layout.PrintModuleWidth,
		barHeight:   r.layout.PrintBarHeight,
		margin:      r.layout.PrintMargin,
	}
}

// drawSVG draws the bars of a one-dimensional barcode, merging adjacent dark
// modules into a single rect.
func drawSVG(bc barcode.Barcode, text string, o svgOptions) []byte {
	modules := bc.Bounds().Dx()
	width := float64(modules)*o.moduleWidth + 2*o.margin
	height := o.barHeight + 2*o.margin
	textGap := 2.0
	if o.fontSize > 0 {
		height += o.fontSize + textGap
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" data-symbology="CODE128">`,
		num(width), num(height), num(width), num(height))
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%s" height="%s" fill="#fff"/>`, num(width), num(height))
	buf.WriteString(`<g fill="#000">`)

	for x := 0; x < modules; {
		if !isDark(bc.At(x, 0)) {
			x++
			continue
		}
		start := x
		for x < modules && isDark(bc.At(x, 0)) {
			x++
		}
		fmt.Fprintf(&buf, `<rect x="%s" y="%s" width="%s" height="%s"/>`,
			num(o.margin+float64(start)*o.moduleWidth), num(o.margin),
			num(float64(x-start)*o.moduleWidth), num(o.barHeight))
	}
	buf.WriteString(`</g>`)

	if o.fontSize > 0 {
		fmt.Fprintf(&buf, `<text x="%s" y="%s" text-anchor="middle" font-family="monospace" font-size="%s">%s</text>`,
			num(width/2), num(o.margin+o.barHeight+textGap+o.fontSize), num(o.fontSize), html.EscapeString(text))
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// num formats a dimension without trailing zeros.
func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
