package face

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/zgpcy/watchface/internal/dial"
)

//go:embed templates/face.svg.tmpl
var svgTemplate string

// ContentType is the media type WriteSVG produces.
const ContentType = "image/svg+xml"

var svgFuncs = template.FuncMap{
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"half": func(v float64) float64 {
		return v / 2
	},
	// inset keeps a stroke inside the given radius
	"inset": func(radius, stroke float64) float64 {
		return radius - stroke/2
	},
	"left": func(c dial.Point, width float64) float64 {
		return c.X - width/2
	},
	// above is the top edge of a box of length centred offset above c
	"above": func(c dial.Point, offset, length float64) float64 {
		return c.Y - offset - length/2
	},
}

var svg = template.Must(template.New("face").Funcs(svgFuncs).Parse(svgTemplate))

// WriteSVG renders the face as a standalone SVG document.
func (f Face) WriteSVG(w io.Writer) error {
	if err := svg.Execute(w, f); err != nil {
		return fmt.Errorf("failed to render face: %w", err)
	}
	return nil
}

// SVG renders the face into memory.
func (f Face) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteSVG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
