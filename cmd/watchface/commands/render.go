package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zgpcy/watchface/internal/clock"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/dial"
	"github.com/zgpcy/watchface/internal/face"
)

func newRenderCmd() *cobra.Command {
	var (
		size   float64
		at     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one clock face as SVG",
		Long: `Render one clock face as SVG, at the current time or at --at.
The SVG is written to stdout unless --output names a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)

			if size == 0 {
				size = cfg.ClockSizes[0]
			}
			if size < face.MinSize || size > face.MaxSize {
				return fmt.Errorf("size must be between %g and %g, got %g", face.MinSize, face.MaxSize, size)
			}

			sampler, err := samplerAt(cfg, at)
			if err != nil {
				return err
			}
			now := sampler.Now()
			angles := dial.NewCalculator(dial.WithSmoothSeconds(cfg.SmoothSeconds)).
				AnglesFor(clock.NewTimeSample(now))
			f := face.Build(cfg.FaceOptions(size), angles, now)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				// #nosec G304 -- output path is chosen by the operator
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := f.WriteSVG(w); err != nil {
				return fmt.Errorf("failed to render face: %w", err)
			}

			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Wrote %s (%gpx, %s)\n",
					successSymbol(), output, size, clock.NewTimeSample(now))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", 0, "Face size in pixels, 0 uses the first configured clock size")
	cmd.Flags().StringVar(&at, "at", "", "Time to draw, RFC3339 (default: now)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// samplerAt returns a sampler on the wall clock, or frozen at the RFC3339
// time at when it is set.
func samplerAt(cfg *config.Config, at string) (*clock.Sampler, error) {
	if at == "" {
		return clock.NewSampler(clock.RealClock{}, cfg.Location()), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("invalid --at %q: must be RFC3339 (e.g. 2026-01-02T15:04:05Z): %w", at, err)
	}
	return clock.NewSampler(clock.FixedClock{At: t}, cfg.Location()), nil
}
