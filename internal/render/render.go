// Package render rasterises 2D shapes into images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"shape-gpa/pkg/colorutil"
	"shape-gpa/pkg/geometry"

	"golang.org/x/image/vector"
)

// Options controls the output image.
type Options struct {
	Size        int     // Width and height in pixels
	Margin      int     // Blank border in pixels
	LineWidth   float64 // Outline width in pixels
	PointRadius float64 // Landmark marker radius in pixels (0 disables markers)
	Background  color.Color
}

// DefaultOptions returns default render options.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Margin:      16,
		LineWidth:   1.5,
		PointRadius: 2.5,
		Background:  colorutil.White,
	}
}

// Layer is a group of shapes drawn in one color.
type Layer struct {
	Shapes []geometry.Shape
	Color  color.Color
	Closed bool // Join the last point back to the first
}

// Draw renders the layers in order onto a square image. All layers share one
// view that fits the union of their bounding boxes, with y pointing up.
func Draw(layers []Layer, opts Options) (*image.RGBA, error) {
	if opts.Size <= 2*opts.Margin {
		return nil, fmt.Errorf("image size %d leaves no room inside margin %d", opts.Size, opts.Margin)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	view, ok := fit(layers, opts)
	if !ok {
		return img, nil
	}

	z := vector.NewRasterizer(opts.Size, opts.Size)
	for _, l := range layers {
		src := image.NewUniform(l.Color)
		for _, s := range l.Shapes {
			pts := s.Transform(view)
			for i := 0; i+1 < len(pts); i++ {
				segment(z, pts[i], pts[i+1], opts.LineWidth)
				z.Draw(img, img.Bounds(), src, image.Point{})
			}
			if l.Closed && len(pts) > 2 {
				segment(z, pts[len(pts)-1], pts[0], opts.LineWidth)
				z.Draw(img, img.Bounds(), src, image.Point{})
			}
			if opts.PointRadius > 0 {
				for _, p := range pts {
					marker(z, p, opts.PointRadius)
					z.Draw(img, img.Bounds(), src, image.Point{})
				}
			}
		}
	}
	return img, nil
}

// fit returns the transform from shape coordinates to pixel coordinates.
func fit(layers []Layer, opts Options) (geometry.AffineTransform, bool) {
	var (
		bounds geometry.Rect
		found  bool
	)
	for _, l := range layers {
		for _, s := range l.Shapes {
			if len(s) == 0 {
				continue
			}
			if !found {
				bounds, found = s.Bounds(), true
				continue
			}
			bounds = bounds.Union(s.Bounds())
		}
	}
	if !found {
		return geometry.AffineTransform{}, false
	}

	extent := math.Max(bounds.Width, bounds.Height)
	if extent == 0 {
		extent = 1
	}
	scale := float64(opts.Size-2*opts.Margin) / extent
	c := bounds.Center()
	half := float64(opts.Size) / 2

	// Centre the view and flip y so that shapes are drawn y-up.
	return geometry.AffineTransform{
		A: scale, TX: half - scale*c.X,
		D: -scale, TY: half + scale*c.Y,
	}, true
}

// segment loads a filled quad of the given width around a->b into z.
func segment(z *vector.Rasterizer, a, b geometry.Point2D, width float64) {
	z.Reset(z.Size().X, z.Size().Y)
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		marker(z, a, width/2)
		return
	}
	n := geometry.Point2D{X: -d.Y / length, Y: d.X / length}.Scale(width / 2)
	z.MoveTo(float32(a.X+n.X), float32(a.Y+n.Y))
	z.LineTo(float32(b.X+n.X), float32(b.Y+n.Y))
	z.LineTo(float32(b.X-n.X), float32(b.Y-n.Y))
	z.LineTo(float32(a.X-n.X), float32(a.Y-n.Y))
	z.ClosePath()
}

// marker loads an octagon of radius r centred on p into z.
func marker(z *vector.Rasterizer, p geometry.Point2D, r float64) {
	z.Reset(z.Size().X, z.Size().Y)
	const sides = 8
	for i := 0; i < sides; i++ {
		angle := float64(i) * 2 * math.Pi / sides
		x := float32(p.X + r*math.Cos(angle))
		y := float32(p.Y + r*math.Sin(angle))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
