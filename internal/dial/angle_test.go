package dial_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/zgpcy/watchface/internal/dial"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"inside range", 123.5, 123.5},
		{"just below full turn", 359.9, 359.9},
		{"full turn", 360, 0},
		{"two turns plus", 725, 5},
		{"negative quarter", -90, 270},
		{"negative full turns", -720, 0},
		{"tiny negative rounds to zero", -1e-15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dial.Wrap(tt.in).Degrees()
			if !approxEqual(got, tt.want) {
				t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got < 0 || got >= dial.FullTurn {
				t.Errorf("Wrap(%v) = %v is outside [0, 360)", tt.in, got)
			}
		})
	}
}

func TestWrappedAngle_AddSub(t *testing.T) {
	tests := []struct {
		name string
		got  dial.WrappedAngle
		want float64
	}{
		{"add without wrap", dial.Wrap(10).Add(dial.Wrap(20)), 30},
		{"add across 360", dial.Wrap(350).Add(dial.Wrap(20)), 10},
		{"sub without wrap", dial.Wrap(90).Sub(dial.Wrap(30)), 60},
		{"sub across 0", dial.Wrap(0).Sub(dial.Wrap(359.9)), 0.1},
		{"sub to negative wraps", dial.Wrap(10).Sub(dial.Wrap(20)), 350},
		{"rotate forward", dial.Wrap(359).Rotate(3), 2},
		{"rotate backward", dial.Wrap(1).Rotate(-2), 359},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !approxEqual(tt.got.Degrees(), tt.want) {
				t.Errorf("got %v, want %v", tt.got.Degrees(), tt.want)
			}
		})
	}
}

func TestWrappedAngle_Delta(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"minute rollover is a small forward step", 359.9, 0, 0.1},
		{"359 to 2 is +3", 359, 2, 3},
		{"forward step", 90, 96, 6},
		{"backward step", 10, 0, -10},
		{"backward across 0", 2, 359, -3},
		{"half turn is positive", 0, 180, 180},
		{"no movement", 42, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dial.Wrap(tt.from).Delta(dial.Wrap(tt.to))
			if !approxEqual(got, tt.want) {
				t.Errorf("Delta(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestWrappedAngle_Radians(t *testing.T) {
	if got := dial.Wrap(180).Radians(); !approxEqual(got, math.Pi) {
		t.Errorf("Radians() = %v, want pi", got)
	}
	if got := dial.Wrap(-90).Radians(); !approxEqual(got, 1.5*math.Pi) {
		t.Errorf("Radians() = %v, want 1.5pi", got)
	}
}

func TestWrappedAngle_String(t *testing.T) {
	if got := dial.Wrap(195).String(); got != "195.00°" {
		t.Errorf("String() = %q, want 195.00°", got)
	}
}

func TestWrappedAngle_JSON(t *testing.T) {
	angles := dial.HandAngles{
		Hour:   dial.Wrap(90),
		Minute: dial.Wrap(0),
		Second: dial.Wrap(-6),
	}

	data, err := json.Marshal(angles)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"hour":90,"minute":0,"second":354}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var decoded dial.HandAngles
	if err := json.Unmarshal([]byte(`{"hour":450,"minute":-30,"second":12}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Hour.Degrees() != 90 || decoded.Minute.Degrees() != 330 || decoded.Second.Degrees() != 12 {
		t.Errorf("Unmarshal() = %v, want wrapped 90/330/12", decoded)
	}

	var bad dial.WrappedAngle
	if err := json.Unmarshal([]byte(`"north"`), &bad); err == nil {
		t.Error("Unmarshal() of a string should fail")
	}
}
