package label

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

// Preview is the on-screen label shown after intake or lookup.
type Preview struct {
	Value   string
	Heading string
	SVG     template.HTML
}

// Fragment is the isolated print block for one label. Markup is the
// container injected at print time, Stylesheet the print-only rules that hide
// the rest of the document, and Script the code that performs the injection.
type Fragment struct {
	Value      string
	Markup     template.HTML
	Stylesheet template.CSS
	Script     template.JS
}

// HTML returns the fragment ready to embed in a page: the markup and styles
// inside an inert <template> element plus the printLabel() function.
func (f Fragment) HTML() template.HTML {
	var buf bytes.Buffer
	if err := embedTmpl.Execute(&buf, f); err != nil {
		// The template is static and only receives pre-typed values.
		panic(fmt.Sprintf("label: embed template: %v", err))
	}
	return template.HTML(buf.String())
}

// Render draws the preview for value.
func (r *Renderer) Render(value string) (Preview, error) {
	svg, err := r.SVG(value)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Value:   value,
		Heading: r.layout.Heading,
		SVG:     template.HTML(svg),
	}, nil
}

// Print builds the print fragment for value.
func (r *Renderer) Print(value string) (Fragment, error) {
	bc, err := Encode(value)
	if err != nil {
		return Fragment{}, err
	}
	svg := drawSVG(bc, value, r.printOptions())

	var markup bytes.Buffer
	if err := markupTmpl.Execute(&markup, struct {
		Heading string
		SVG     template.HTML
		Value   string
	}{r.layout.Heading, template.HTML(svg), value}); err != nil {
		return Fragment{}, fmt.Errorf("label: render markup: %w", err)
	}

	var css bytes.Buffer
	if err := stylesheetTmpl.Execute(&css, r.layout); err != nil {
		return Fragment{}, fmt.Errorf("label: render stylesheet: %w", err)
	}

	return Fragment{
		Value:      value,
		Markup:     template.HTML(markup.String()),
		Stylesheet: template.CSS(css.String()),
		Script:     template.JS(fmt.Sprintf(printScript, r.layout.CleanupDelay.Milliseconds())),
	}, nil
}

const containerClass = "print-barcode-container"

var markupTmpl = template.Must(template.New("markup").Parse(
	`<div class="` + containerClass + `">` +
		`<h3>{{.Heading}}</h3>` +
		`{{.SVG}}` +
		`<p>{{.Value}}</p>` +
		`</div>`))

// stylesheetTmpl only interpolates Layout numbers; the output is trusted CSS.
var stylesheetTmpl = texttemplate.Must(texttemplate.New("stylesheet").Parse(`@media print {
  * { margin: 0; padding: 0; box-sizing: border-box; page-break-inside: avoid; }
  body * { visibility: hidden; }
  .` + containerClass + `, .` + containerClass + ` * { visibility: visible; }
  .` + containerClass + ` {
    position: fixed; left: 50%; top: 50%;
    width: {{.LabelWidthMM}}mm; height: {{.LabelHeightMM}}mm;
    transform: translate(-50%, -50%);
    background: white; text-align: center; font-family: Arial, sans-serif;
    padding: {{.LabelPaddingMM}}mm;
    display: flex; flex-direction: column; align-items: center; justify-content: center;
    page-break-after: avoid;
  }
  .` + containerClass + ` h3 { font-size: {{.HeadingFontPx}}px; font-weight: bold; margin-bottom: 5px; }
  .` + containerClass + ` svg { width: {{.BarcodeWidthMM}}mm; height: {{.BarcodeHeightMM}}mm; display: block; margin: 0 auto; }
  .` + containerClass + ` p { font-size: {{.TextFontPx}}px; font-weight: bold; text-align: center; margin-top: 5px; }
}`))

// printScript removes any fragment left from an earlier print, injects the
// new one, opens the print dialog and removes the fragment after the delay.
const printScript = `function printLabel() {
  document.querySelectorAll(".` + containerClass + `, style[data-label-print]").forEach(function (el) { el.remove(); });
  var tpl = document.getElementById("label-print-template");
  var content = tpl.content.cloneNode(true);
  var style = content.querySelector("style");
  var container = content.querySelector(".` + containerClass + `");
  style.setAttribute("data-label-print", "");
  document.head.appendChild(style);
  document.body.appendChild(container);
  window.print();
  setTimeout(function () { container.remove(); }, %d);
}`

var embedTmpl = template.Must(template.New("embed").Parse(
	`<template id="label-print-template">{{.Markup}}<style>{{.Stylesheet}}</style></template>` +
		`<script>{{.Script}}</script>`))
