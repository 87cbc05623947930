package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // logo decoding
	_ "image/png"  // logo decoding
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// QuadrantColors are the scatter colours, 60% opaque.
var QuadrantColors = map[activity.Quadrant]color.NRGBA{
	activity.QuadrantActivityCliffs: {R: 255, G: 0, B: 0, A: 153},
	activity.QuadrantScaffoldHops:   {R: 128, G: 0, B: 128, A: 153},
	activity.QuadrantSmoothSAR:      {R: 0, G: 128, B: 0, A: 153},
	activity.QuadrantNonDescript:    {R: 0, G: 0, B: 255, A: 153},
}

// MapOptions controls RenderMap.
type MapOptions struct {
	Preset                      string
	SimilarityThreshold         float64
	ActivityDifferenceThreshold float64
	// Logo is drawn below the lower-left corner of the axes when non-nil.
	Logo   image.Image
	Width  vg.Length
	Height vg.Length
}

func (o *MapOptions) applyDefaults() {
	if o.Width == 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 6 * vg.Inch
	}
}

// MapTitle returns the plot title for preset.
func MapTitle(preset string) string {
	return fmt.Sprintf("SimilACTrail Map (Fingerprint : %s)", preset)
}

// NewMapPlot builds the scatter plot without rendering it.
func NewMapPlot(pairs []activity.PairResult, opts MapOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = MapTitle(opts.Preset)
	p.X.Label.Text = "Tanimoto Similarity"
	p.Y.Label.Text = "Activity Difference"
	p.Legend.Top = true

	maxDiff := opts.ActivityDifferenceThreshold
	byQuadrant := make(map[activity.Quadrant]plotter.XYs, 4)
	for _, pr := range pairs {
		byQuadrant[pr.Quadrant] = append(byQuadrant[pr.Quadrant], plotter.XY{X: pr.Similarity, Y: pr.ActivityDifference})
		if pr.ActivityDifference > maxDiff {
			maxDiff = pr.ActivityDifference
		}
	}
	if maxDiff <= 0 {
		maxDiff = 1
	}
	p.X.Min, p.X.Max = 0, 1.05
	p.Y.Min, p.Y.Max = 0, maxDiff*1.1

	for _, q := range activity.Quadrants() {
		pts := byQuadrant[q]
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "build scatter for "+q.String())
		}
		s.GlyphStyle.Color = QuadrantColors[q]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(q.String(), s)
	}

	vline, err := thresholdLine(plotter.XYs{{X: opts.SimilarityThreshold, Y: p.Y.Min}, {X: opts.SimilarityThreshold, Y: p.Y.Max}})
	if err != nil {
		return nil, err
	}
	hline, err := thresholdLine(plotter.XYs{{X: p.X.Min, Y: opts.ActivityDifferenceThreshold}, {X: p.X.Max, Y: opts.ActivityDifferenceThreshold}})
	if err != nil {
		return nil, err
	}
	p.Add(vline, hline)
	return p, nil
}

func thresholdLine(pts plotter.XYs) (*plotter.Line, error) {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "build threshold line")
	}
	l.LineStyle.Color = color.Black
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	return l, nil
}

// RenderMap draws the map as PNG to w.
func RenderMap(w io.Writer, pairs []activity.PairResult, opts MapOptions) error {
	opts.applyDefaults()
	p, err := NewMapPlot(pairs, opts)
	if err != nil {
		return err
	}

	c := vgimg.New(opts.Width, opts.Height)
	p.Draw(draw.New(c))
	if opts.Logo != nil {
		c.DrawImage(logoRect(opts.Logo, opts.Width), opts.Logo)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "encode PNG map")
	}
	return nil
}

// logoRect places the logo 0.4 inch tall at the bottom edge, starting near a
// quarter of the width.
func logoRect(img image.Image, width vg.Length) vg.Rectangle {
	b := img.Bounds()
	h := 0.4 * vg.Inch
	w := h
	if b.Dy() > 0 {
		w = h * vg.Length(b.Dx()) / vg.Length(b.Dy())
	}
	x := 0.23 * width
	y := vg.Points(2)
	return vg.Rectangle{Min: vg.Point{X: x, Y: y}, Max: vg.Point{X: x + w, Y: y + h}}
}

// DecodeLogo decodes a JPEG or PNG image.
func DecodeLogo(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalFetchFailed, "decode logo image")
	}
	return img, nil
}

//Personal.AI order the ending
