package dial

import (
	"encoding/json"
	"fmt"
	"math"
)

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// WrappedAngle is a rotation held in [0, 360). The zero value is 0°.
type WrappedAngle struct {
	degrees float64
}

// Wrap normalizes deg into [0, 360).
func Wrap(deg float64) WrappedAngle {
	d := math.Mod(deg, FullTurn)
	if d < 0 {
		d += FullTurn
	}
	// -1e-15 + 360 rounds to 360
	if d >= FullTurn {
		d = 0
	}
	return WrappedAngle{degrees: d}
}

// Degrees returns the normalized value.
func (a WrappedAngle) Degrees() float64 {
	return a.degrees
}

// Radians returns the normalized value in radians.
func (a WrappedAngle) Radians() float64 {
	return a.degrees * math.Pi / 180
}

// Add returns a+b, wrapped.
func (a WrappedAngle) Add(b WrappedAngle) WrappedAngle {
	return Wrap(a.degrees + b.degrees)
}

// Sub returns a-b, wrapped. Wrap(0).Sub(Wrap(359.9)) is 0.1.
func (a WrappedAngle) Sub(b WrappedAngle) WrappedAngle {
	return Wrap(a.degrees - b.degrees)
}

// Rotate adds a raw number of degrees, wrapped.
func (a WrappedAngle) Rotate(deg float64) WrappedAngle {
	return Wrap(a.degrees + deg)
}

// Delta returns the signed shortest rotation from a to to, in (-180, 180].
func (a WrappedAngle) Delta(to WrappedAngle) float64 {
	d := to.Sub(a).degrees
	if d > FullTurn/2 {
		d -= FullTurn
	}
	return d
}

func (a WrappedAngle) String() string {
	return fmt.Sprintf("%.2f°", a.degrees)
}

// MarshalJSON encodes the angle as a plain number of degrees.
func (a WrappedAngle) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.degrees)
}

// UnmarshalJSON decodes a number of degrees and wraps it.
func (a *WrappedAngle) UnmarshalJSON(data []byte) error {
	var deg float64
	if err := json.Unmarshal(data, &deg); err != nil {
		return fmt.Errorf("angle must be a number of degrees: %w", err)
	}
	*a = Wrap(deg)
	return nil
}
