// Package face lays out an analog watch face and renders it as SVG.
//
// A face is described on a 300-unit reference square and scaled to the
// requested size:
//   - an outer ring 230 across, stroked in the accent colour
//   - twelve hour numerals on a radius of 100
//   - sixty dots on a radius of 90 and sixty ticks at 75, every fifth tick major
//   - hour, minute and second hands rotated about the center
//   - a small inner ring and the current date 40 units below center
//
// Build is pure; it takes hand angles from package dial and an instant for
// the date inset. WriteSVG emits each hand as a group whose CSS transform
// carries its rotation, so a page can animate hands by updating that
// transform alone.
//
// Example usage:
//
//	calc := dial.NewCalculator()
//	now := time.Now()
//	f := face.Build(face.Options{Size: 200}, calc.AnglesFor(clock.NewTimeSample(now)), now)
//	if err := f.WriteSVG(os.Stdout); err != nil {
//		log.Fatal(err)
//	}
package face
