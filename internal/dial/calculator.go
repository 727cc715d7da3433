package dial

import (
	"math"

	"github.com/zgpcy/watchface/internal/clock"
)

// Angular steps of a twelve-hour dial, in degrees.
const (
	DegreesPerHour         = 30.0
	DegreesPerMinute       = 6.0
	DegreesPerSecond       = 6.0
	HourDegreesPerMinute   = 0.5
	MinuteDegreesPerSecond = 0.1
	TickStep               = 6.0
	TickCount              = 60
	HourCount              = 12
)

// Point is a position in the face's coordinate space (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandAngles holds clockwise rotations from 12 o'clock for each hand.
type HandAngles struct {
	Hour   WrappedAngle `json:"hour"`
	Minute WrappedAngle `json:"minute"`
	Second WrappedAngle `json:"second"`
}

// HandDeltas holds the shortest signed rotation each hand made between two
// HandAngles values.
type HandDeltas struct {
	Hour   float64 `json:"hour"`
	Minute float64 `json:"minute"`
	Second float64 `json:"second"`
}

// DeltaTo returns the rotation that takes h to next.
func (h HandAngles) DeltaTo(next HandAngles) HandDeltas {
	return HandDeltas{
		Hour:   h.Hour.Delta(next.Hour),
		Minute: h.Minute.Delta(next.Minute),
		Second: h.Second.Delta(next.Second),
	}
}

// LabelPosition is where an hour numeral is drawn.
type LabelPosition struct {
	Hour int     `json:"hour"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Calculator maps time samples to hand angles and hour numerals to
// positions around its center.
type Calculator struct {
	center        Point
	smoothSeconds bool
}

// Option configures a Calculator
type Option func(*Calculator)

// WithCenter sets the point labels are placed around.
func WithCenter(p Point) Option {
	return func(c *Calculator) {
		c.center = p
	}
}

// WithSmoothSeconds makes the second hand sweep using the sample's
// sub-second fraction instead of stepping once per second.
func WithSmoothSeconds(enabled bool) Option {
	return func(c *Calculator) {
		c.smoothSeconds = enabled
	}
}

// NewCalculator creates a Calculator centered on the origin.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Center returns the calculator's center point
func (c *Calculator) Center() Point {
	return c.center
}

// AnglesFor returns the hand rotations for s. The hour and minute hands
// advance fractionally with the next smaller unit.
func (c *Calculator) AnglesFor(s clock.TimeSample) HandAngles {
	hour := float64(s.Hour12())*DegreesPerHour + float64(s.Minute)*HourDegreesPerMinute
	minute := float64(s.Minute)*DegreesPerMinute + float64(s.Second)*MinuteDegreesPerSecond
	second := float64(s.Second) * DegreesPerSecond
	if c.smoothSeconds {
		second += float64(s.Nanosecond) / 1e9 * DegreesPerSecond
	}

	return HandAngles{
		Hour:   Wrap(hour),
		Minute: Wrap(minute),
		Second: Wrap(second),
	}
}

// LabelPosition places hour's numeral on a circle of radius around the
// center, 12 at the top. Hours outside 1-12 wrap (0 is 12, 13 is 1).
func (c *Calculator) LabelPosition(hour int, radius float64) LabelPosition {
	hour = NormalizeHour(hour)

	// math convention: 0° points east, so 12 o'clock sits at -90°
	deg := -90.0
	if hour != 12 {
		deg = float64(hour)*DegreesPerHour - 90
	}
	theta := deg * math.Pi / 180

	return LabelPosition{
		Hour: hour,
		X:    radius*math.Cos(theta) + c.center.X,
		Y:    radius*math.Sin(theta) + c.center.Y,
	}
}

// LabelPositions returns the positions of all twelve numerals, 1 first.
func (c *Calculator) LabelPositions(radius float64) []LabelPosition {
	out := make([]LabelPosition, 0, HourCount)
	for h := 1; h <= HourCount; h++ {
		out = append(out, c.LabelPosition(h, radius))
	}
	return out
}

// TickAngle returns the rotation of minor mark index (0-59).
func TickAngle(index int) WrappedAngle {
	return Wrap(float64(index) * TickStep)
}

// NormalizeHour folds any integer onto 1-12.
func NormalizeHour(hour int) int {
	h := hour % HourCount
	if h <= 0 {
		h += HourCount
	}
	return h
}
