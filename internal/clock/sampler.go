package clock

import (
	"fmt"
	"time"
)

// TimeSample is the wall-clock reading a face is drawn from.
// Hour is kept in 24-hour form; use Hour12 for a twelve-hour dial.
type TimeSample struct {
	Hour       int `json:"hour"`
	Minute     int `json:"minute"`
	Second     int `json:"second"`
	Nanosecond int `json:"nanosecond"`
}

// NewTimeSample extracts the time-of-day fields of t in t's own location.
func NewTimeSample(t time.Time) TimeSample {
	h, m, s := t.Clock()
	return TimeSample{
		Hour:       h,
		Minute:     m,
		Second:     s,
		Nanosecond: t.Nanosecond(),
	}
}

// Hour12 returns the hour folded onto a twelve-hour dial (0-11).
func (s TimeSample) Hour12() int {
	return s.Hour % 12
}

// String formats the sample as HH:MM:SS.
func (s TimeSample) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.Hour, s.Minute, s.Second)
}

// Sampler reads a Clock and converts the reading into a location.
type Sampler struct {
	clock    Clock
	location *time.Location
}

// NewSampler creates a Sampler. A nil clock means RealClock and a nil
// location means time.Local.
func NewSampler(c Clock, loc *time.Location) *Sampler {
	if c == nil {
		c = RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sampler{clock: c, location: loc}
}

// Now returns the current instant in the sampler's location
func (s *Sampler) Now() time.Time {
	return s.clock.Now().In(s.location)
}

// Sample reads the clock once and returns the time of day.
func (s *Sampler) Sample() TimeSample {
	return NewTimeSample(s.Now())
}

// Location returns the location samples are taken in
func (s *Sampler) Location() *time.Location {
	return s.location
}
