// Package dial turns wall-clock time into analog clock geometry.
//
// Angles use the clock convention: 0° is 12 o'clock and values grow
// clockwise. Every angle is a WrappedAngle held in [0, 360), so a hand
// moving from 359.9° to 0° is a 0.1° step rather than a full spin
// backwards; Delta reports that step with its sign.
//
// The formulas are:
//
//	hour   = (h % 12) * 30 + m * 0.5
//	minute = m * 6 + s * 0.1
//	second = s * 6            (+ ns/1e9 * 6 with smooth seconds)
//
// Label positions use the math convention instead (0° east, y down on
// screen), which puts 12 o'clock at -90°.
//
// All functions are pure: the same sample and options always produce
// the same result.
package dial
