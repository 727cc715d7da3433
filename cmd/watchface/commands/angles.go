package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/zgpcy/watchface/internal/clock"
	"github.com/zgpcy/watchface/internal/dial"
	"github.com/zgpcy/watchface/internal/face"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func successSymbol() string {
	return green("✓")
}

func newAnglesCmd() *cobra.Command {
	var (
		at     string
		radius float64
	)

	cmd := &cobra.Command{
		Use:   "angles",
		Short: "Print hand angles and numeral positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			if radius <= 0 {
				return fmt.Errorf("radius must be greater than 0, got %g", radius)
			}

			sampler, err := samplerAt(cfg, at)
			if err != nil {
				return err
			}
			now := sampler.Now()
			sample := clock.NewTimeSample(now)

			center := face.ReferenceSize / 2
			calc := dial.NewCalculator(
				dial.WithCenter(dial.Point{X: center, Y: center}),
				dial.WithSmoothSeconds(cfg.SmoothSeconds),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s)\n\n", bold("Time"), sample, now.Format("2006-01-02 MST"))

			if err := printHands(out, calc.AnglesFor(sample)); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printLabels(out, calc, radius)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time to compute, RFC3339 (default: now)")
	cmd.Flags().Float64Var(&radius, "radius", 100, "Radius numerals are placed on")

	return cmd
}

func printHands(w io.Writer, angles dial.HandAngles) error {
	table := newTable(w)
	table.Header([]string{"HAND", "DEGREES", "RADIANS"})

	hands := []struct {
		name  string
		angle dial.WrappedAngle
	}{
		{"hour", angles.Hour},
		{"minute", angles.Minute},
		{"second", angles.Second},
	}

	var data [][]string
	for _, h := range hands {
		data = append(data, []string{
			h.name,
			fmt.Sprintf("%.2f", h.angle.Degrees()),
			fmt.Sprintf("%.4f", h.angle.Radians()),
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build hands table: %w", err)
	}
	return table.Render()
}

func printLabels(w io.Writer, calc *dial.Calculator, radius float64) error {
	table := newTable(w)
	table.Header([]string{"HOUR", "X", "Y"})

	var data [][]string
	for _, pos := range calc.LabelPositions(radius) {
		data = append(data, []string{
			fmt.Sprintf("%d", pos.Hour),
			fmt.Sprintf("%.2f", pos.X),
			fmt.Sprintf("%.2f", pos.Y),
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build labels table: %w", err)
	}
	table.Footer([]string{"", "center", fmt.Sprintf("%.0f,%.0f", calc.Center().X, calc.Center().Y)})
	return table.Render()
}

// newTable creates a table with the CLI's colorized, borderless style
func newTable(w io.Writer) *tablewriter.Table {
	colorCfg := renderer.ColorizedConfig{
		Header: renderer.Tint{
			FG: renderer.Colors{color.FgGreen, color.Bold},
		},
		Column: renderer.Tint{
			FG: renderer.Colors{color.FgCyan},
			Columns: []renderer.Tint{
				{FG: renderer.Colors{color.FgMagenta}},
			},
		},
		Footer: renderer.Tint{
			FG: renderer.Colors{color.FgYellow, color.Bold},
		},
		Border:    renderer.Tint{FG: renderer.Colors{color.FgBlue}},
		Separator: renderer.Tint{FG: renderer.Colors{color.FgBlue}},
	}

	borders := tw.Border{
		Left:   tw.Off,
		Right:  tw.Off,
		Top:    tw.Off,
		Bottom: tw.Off,
	}

	symbols := tw.NewSymbolCustom("HorizontalOnly").
		WithRow("─").
		WithCenter("─").
		WithColumn(" ")

	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewColorized(colorCfg)),
		tablewriter.WithRendition(tw.Rendition{Borders: borders, Symbols: symbols}),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
	)
}
