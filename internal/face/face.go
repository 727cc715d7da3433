package face

import (
	"strconv"
	"time"

	"github.com/zgpcy/watchface/internal/dial"
)

// Reference geometry. Every length below is for a ReferenceSize face and is
// multiplied by Size/ReferenceSize when a face is built.
const (
	ReferenceSize = 300.0

	ringDiameter    = 230.0
	ringStroke      = 1.0
	labelRadius     = 100.0
	labelFontSize   = 15.0
	dotDiameter     = 2.0
	dotRadius       = 90.0
	tickOffset      = 75.0
	majorTickWidth  = 2.0
	majorTickLength = 15.0
	minorTickWidth  = 1.0
	minorTickLength = 7.0
	innerDiameter   = 10.0
	dateOffset      = 40.0
	dateFontSize    = 10.0
)

// Defaults for Options
const (
	DefaultDateFormat = "Jan 2 2006"
	MinSize           = 50.0
	MaxSize           = 2000.0
)

// Style holds the colours of a face.
type Style struct {
	Accent     string `yaml:"accent" json:"accent"`
	Primary    string `yaml:"primary" json:"primary"`
	Dot        string `yaml:"dot" json:"dot"`
	Background string `yaml:"background" json:"background"`
}

// DefaultStyle returns orange accents on the current text colour.
func DefaultStyle() Style {
	return Style{
		Accent:     "#FFA500",
		Primary:    "currentColor",
		Dot:        "rgba(128,128,128,0.6)",
		Background: "none",
	}
}

func (s Style) withDefaults() Style {
	def := DefaultStyle()
	if s.Accent == "" {
		s.Accent = def.Accent
	}
	if s.Primary == "" {
		s.Primary = def.Primary
	}
	if s.Dot == "" {
		s.Dot = def.Dot
	}
	if s.Background == "" {
		s.Background = def.Background
	}
	return s
}

// Options controls how a face is laid out.
type Options struct {
	Size       float64
	Style      Style
	DateFormat string
}

// Label is an hour numeral.
type Label struct {
	Text string
	X, Y float64
}

// Mark is a dot or tick rotated about the face center. The unrotated mark
// is a Width x Length box centred Offset units above the center.
type Mark struct {
	Angle  float64
	Width  float64
	Length float64
	Offset float64
	Major  bool
}

// Segment is one drawn piece of a hand, in the same unrotated frame as Mark.
type Segment struct {
	Width   float64
	Length  float64
	Offset  float64
	Rounded bool
	Color   string
}

// Hand is a rotated group of segments.
type Hand struct {
	Name     string
	Angle    float64
	Segments []Segment
}

// Face is the complete layout of one clock at one instant.
type Face struct {
	Size         float64
	Scale        float64
	Center       dial.Point
	RingRadius   float64
	RingStroke   float64
	LabelSize    float64
	Labels       []Label
	Dots         []Mark
	Ticks        []Mark
	Hands        []Hand
	InnerRadius  float64
	Date         string
	DateY        float64
	DateFontSize float64
	Style        Style
}

// Build lays out a face of opts.Size showing angles, with now's date in the
// inset. A Size of zero means ReferenceSize.
func Build(opts Options, angles dial.HandAngles, now time.Time) Face {
	size := opts.Size
	if size <= 0 {
		size = ReferenceSize
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}
	style := opts.Style.withDefaults()

	scale := size / ReferenceSize
	center := dial.Point{X: size / 2, Y: size / 2}
	calc := dial.NewCalculator(dial.WithCenter(center))

	f := Face{
		Size:         size,
		Scale:        scale,
		Center:       center,
		RingRadius:   ringDiameter / 2 * scale,
		RingStroke:   ringStroke * scale,
		LabelSize:    labelFontSize * scale,
		InnerRadius:  innerDiameter / 2 * scale,
		Date:         now.Format(layout),
		DateY:        center.Y + dateOffset*scale,
		DateFontSize: dateFontSize * scale,
		Style:        style,
	}

	for _, p := range calc.LabelPositions(labelRadius * scale) {
		f.Labels = append(f.Labels, Label{Text: strconv.Itoa(p.Hour), X: p.X, Y: p.Y})
	}

	f.Dots = make([]Mark, 0, dial.TickCount)
	f.Ticks = make([]Mark, 0, dial.TickCount)
	for i := 0; i < dial.TickCount; i++ {
		angle := dial.TickAngle(i).Degrees()
		f.Dots = append(f.Dots, Mark{
			Angle:  angle,
			Width:  dotDiameter * scale,
			Length: dotDiameter * scale,
			Offset: dotRadius * scale,
		})

		major := i%5 == 0
		tick := Mark{
			Angle:  angle,
			Width:  minorTickWidth * scale,
			Length: minorTickLength * scale,
			Offset: tickOffset * scale,
			Major:  major,
		}
		if major {
			tick.Width = majorTickWidth * scale
			tick.Length = majorTickLength * scale
		}
		f.Ticks = append(f.Ticks, tick)
	}

	f.Hands = []Hand{
		{
			Name:  "hour",
			Angle: angles.Hour.Degrees(),
			Segments: []Segment{
				{Width: 4 * scale, Length: 30 * scale, Offset: 30 * scale, Rounded: true, Color: style.Primary},
				{Width: 1 * scale, Length: 40 * scale, Offset: 25 * scale, Color: style.Primary},
			},
		},
		{
			Name:  "minute",
			Angle: angles.Minute.Degrees(),
			Segments: []Segment{
				{Width: 4 * scale, Length: 50 * scale, Offset: 40 * scale, Rounded: true, Color: style.Primary},
				{Width: 1 * scale, Length: 55 * scale, Offset: 32 * scale, Color: style.Primary},
			},
		},
		{
			Name:  "second",
			Angle: angles.Second.Degrees(),
			Segments: []Segment{
				{Width: 1 * scale, Length: 60 * scale, Offset: 35 * scale, Color: style.Accent},
			},
		},
	}

	return f
}

// Hand returns the named hand, or false.
func (f Face) Hand(name string) (Hand, bool) {
	for _, h := range f.Hands {
		if h.Name == name {
			return h, true
		}
	}
	return Hand{}, false
}
