package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/songsen/servoM8/internal/servo"
)

var (
	positionRGBA = color.RGBA{R: 0x00, G: 0xaa, B: 0x55, A: 0xff}
	seekRGBA     = color.RGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}
	driveRGBA    = color.RGBA{R: 0x00, G: 0x77, B: 0xcc, A: 0xff}
)

// PlotOptions sizes a PNG chart.
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 8 * vg.Inch, Height: 6 * vg.Inch, DPI: 150}
}

// WritePNG charts position and seek against time in the upper plot and
// the applied drive in the lower plot.
func WritePNG(w io.Writer, samples []servo.Sample, sampleRate float64, opts PlotOptions) error {
	if len(samples) < 2 {
		return fmt.Errorf("export: need at least 2 samples, have %d", len(samples))
	}
	if sampleRate <= 0 {
		return fmt.Errorf("export: sample rate must be positive, got %f", sampleRate)
	}

	position := make(plotter.XYs, len(samples))
	seek := make(plotter.XYs, len(samples))
	drive := make(plotter.XYs, len(samples))
	for i, s := range samples {
		t := float64(s.Cycle) / sampleRate
		position[i] = plotter.XY{X: t, Y: float64(s.Position)}
		seek[i] = plotter.XY{X: t, Y: float64(s.Target())}
		drive[i] = plotter.XY{X: t, Y: float64(s.Drive)}
	}

	upper := plot.New()
	upper.Title.Text = opts.Title
	upper.Y.Label.Text = "counts"
	upper.Y.Min, upper.Y.Max = servo.MinPosition, servo.MaxPosition
	if err := addLine(upper, "seek", seek, seekRGBA); err != nil {
		return err
	}
	if err := addLine(upper, "position", position, positionRGBA); err != nil {
		return err
	}
	upper.Legend.Top = true

	lower := plot.New()
	lower.X.Label.Text = "time (s)"
	lower.Y.Label.Text = "drive"
	lower.Y.Min, lower.Y.Max = servo.MinOutput, servo.MaxOutput
	if err := addLine(lower, "", drive, driveRGBA); err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(c)
	top := draw.Crop(dc, 0, 0, opts.Height/3, 0)
	bottom := draw.Crop(dc, 0, 0, 0, -2*opts.Height/3)
	upper.Draw(top)
	lower.Draw(bottom)

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("export: write png: %w", err)
	}
	return nil
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
	return nil
}
