// Package export renders recorded servo runs for use outside the terminal.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/songsen/servoM8/internal/servo"
)

const (
	PositionColor = "#00ff00"
	SeekColor     = "#ffaa00"
	DriveColor    = "#00aaff"
)

// Trace is one polyline in a panel.
type Trace struct {
	Color  string
	Values []float64
}

// SamplesToSVG draws position and seek over the full sensor range in the
// upper panel and the applied drive over [-255, 255] in the lower panel.
func SamplesToSVG(samples []servo.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	position := make([]float64, len(samples))
	seek := make([]float64, len(samples))
	drive := make([]float64, len(samples))
	for i, s := range samples {
		position[i] = float64(s.Position)
		seek[i] = float64(s.Target())
		drive[i] = float64(s.Drive)
	}

	upper := height * 2 / 3
	lower := height - upper

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	writePanel(&sb, 0, width, upper, servo.MinPosition, servo.MaxPosition,
		Trace{SeekColor, seek}, Trace{PositionColor, position})
	writePanel(&sb, upper, width, lower, servo.MinOutput, servo.MaxOutput,
		Trace{DriveColor, drive})

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes SamplesToSVG to w.
func WriteSVG(w io.Writer, samples []servo.Sample, width, height int) error {
	svg := SamplesToSVG(samples, width, height)
	if svg == "" {
		return fmt.Errorf("export: need at least 2 samples, have %d", len(samples))
	}
	_, err := io.WriteString(w, svg)
	return err
}

// writePanel draws traces in the band [top, top+height) with lo at the
// bottom edge and hi at the top.
func writePanel(sb *strings.Builder, top, width, height int, lo, hi float64, traces ...Trace) {
	fmt.Fprintf(sb, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="#333333"/>
`, top+height, width, top+height)

	span := hi - lo
	for _, tr := range traces {
		n := len(tr.Values)
		if n < 2 {
			continue
		}
		fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, tr.Color)
		for i, v := range tr.Values {
			x := float64(i) / float64(n-1) * float64(width)
			y := float64(top) + float64(height) - (v-lo)/span*float64(height)
			if i == 0 {
				fmt.Fprintf(sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}
}
