// Package preview draws a top-down picture of a computed layout.
package preview

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/vector"

	"github.com/Faultbox/splinescatter/internal/engine"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// Curve is the part of a curve the preview draws.
type Curve interface {
	Polyline(step float32) []math.Vec3
}

// Options control image size and styling.
type Options struct {
	Width, Height int
	Padding       int     // pixels on every side
	SampleStep    float32 // curve units between polyline samples

	Background color.RGBA
	CurveColor color.RGBA
	Instance   color.RGBA
	Segment    color.RGBA
}

// DefaultOptions returns a 1024x1024 dark preview.
func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     1024,
		Padding:    32,
		SampleStep: 5,
		Background: color.RGBA{0x1e, 0x1e, 0x24, 0xff},
		CurveColor: color.RGBA{0x9a, 0x9a, 0xa8, 0xff},
		Instance:   color.RGBA{0x4f, 0xc3, 0xf7, 0xff},
		Segment:    color.RGBA{0xff, 0xb7, 0x4d, 0xff},
	}
}

const (
	curveWidth   = 2
	segmentWidth = 4
	markerRadius = 4
	lightRadius  = 7
)

// Render draws the curve, segment chords, instance markers and lights.
// Lights are tinted with their own color. The view is fitted to everything
// drawn, preserving aspect ratio.
func Render(c Curve, l engine.Layout, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	if opts.Width <= 0 || opts.Height <= 0 {
		return img
	}

	var curve []math.Vec3
	if c != nil {
		curve = c.Polyline(opts.SampleStep)
	}
	pts := append([]math.Vec3(nil), curve...)
	for _, b := range l.Instances {
		for _, inst := range b.Instances {
			pts = append(pts, inst.Transform.Location)
		}
		for _, lt := range b.Lights {
			pts = append(pts, lt.Transform.Location)
		}
	}
	for _, r := range l.Segments {
		for _, s := range r.Segments {
			pts = append(pts, s.Start.Transform.Location, s.End.Transform.Location)
		}
	}
	for _, s := range l.Strands {
		for _, lt := range s.Lights {
			pts = append(pts, lt.Transform.Location)
		}
	}
	if len(pts) == 0 {
		return img
	}

	cv := newCanvas(img, fit(pts, opts))

	cv.polyline(curve, curveWidth, opts.CurveColor)
	for _, r := range l.Segments {
		for _, s := range r.Segments {
			cv.polyline([]math.Vec3{s.Start.Transform.Location, s.End.Transform.Location}, segmentWidth, opts.Segment)
		}
	}
	for _, b := range l.Instances {
		for _, inst := range b.Instances {
			cv.disc(inst.Transform.Location, markerRadius, opts.Instance)
		}
		for _, lt := range b.Lights {
			cv.disc(lt.Transform.Location, lightRadius, tint(lt.Params.Color))
		}
	}
	for _, s := range l.Strands {
		for _, lt := range s.Lights {
			cv.disc(lt.Transform.Location, lightRadius, tint(lt.Params.Color))
		}
	}
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// tint converts a linear 0..1 light color to an opaque RGBA, clamping
// each channel.
func tint(c [3]float32) color.RGBA {
	ch := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 0xff
		}
		return uint8(v*0xff + 0.5)
	}
	return color.RGBA{ch(c[0]), ch(c[1]), ch(c[2]), 0xff}
}

// view maps world X/Y onto pixels.
type view struct {
	proj   math.Mat4
	x0, y0 float32 // drawable origin in pixels
	w, h   float32 // drawable size in pixels
}

func (v view) pixel(p math.Vec3) math.Vec2 {
	n := v.proj.TransformVec3(math.Vec3{X: p.X, Y: p.Y})
	return math.Vec2{
		X: v.x0 + (n.X+1)/2*v.w,
		Y: v.y0 + (1-n.Y)/2*v.h,
	}
}

// fit builds an orthographic view around pts with the drawable area's
// aspect ratio.
func fit(pts []math.Vec3, opts Options) view {
	lo, hi := pts[0].XY(), pts[0].XY()
	for _, p := range pts[1:] {
		lo, hi = lo.Min(p.XY()), hi.Max(p.XY())
	}

	pad := float32(opts.Padding)
	w := float32(opts.Width) - 2*pad
	h := float32(opts.Height) - 2*pad
	if w < 1 || h < 1 {
		pad, w, h = 0, float32(opts.Width), float32(opts.Height)
	}

	center := lo.Add(hi).Scale(0.5)
	half := hi.Sub(lo).Scale(0.5)
	if half.X < 1 {
		half.X = 1
	}
	if half.Y < 1 {
		half.Y = 1
	}
	if aspect := w / h; half.X/half.Y < aspect {
		half.X = half.Y * aspect
	} else {
		half.Y = half.X / aspect
	}

	return view{
		proj: math.Ortho(center.X-half.X, center.X+half.X, center.Y-half.Y, center.Y+half.Y, -1, 1),
		x0:   pad,
		y0:   pad,
		w:    w,
		h:    h,
	}
}

type canvas struct {
	img  *image.RGBA
	ras  *vector.Rasterizer
	view view
}

func newCanvas(img *image.RGBA, v view) *canvas {
	b := img.Bounds()
	ras := vector.NewRasterizer(b.Dx(), b.Dy())
	ras.DrawOp = draw.Over
	return &canvas{img: img, ras: ras, view: v}
}

func (c *canvas) fill(col color.RGBA) {
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
}

// polyline strokes pts as a chain of quads width pixels wide.
func (c *canvas) polyline(pts []math.Vec3, width float32, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	half := width / 2
	for i := 0; i+1 < len(pts); i++ {
		a, b := c.view.pixel(pts[i]), c.view.pixel(pts[i+1])
		n := b.Sub(a).Normalize().Perp().Scale(half)
		if n.X == 0 && n.Y == 0 {
			continue
		}
		c.ras.MoveTo(a.X+n.X, a.Y+n.Y)
		c.ras.LineTo(b.X+n.X, b.Y+n.Y)
		c.ras.LineTo(b.X-n.X, b.Y-n.Y)
		c.ras.LineTo(a.X-n.X, a.Y-n.Y)
		c.ras.ClosePath()
	}
	c.fill(col)
}

// disc fills a circle of radius pixels centred on p.
func (c *canvas) disc(p math.Vec3, radius float32, col color.RGBA) {
	const k = float32(0.5522847498)
	ctr := c.view.pixel(p)
	cx, cy, kr := ctr.X, ctr.Y, k*radius

	c.ras.MoveTo(cx, cy-radius)
	c.ras.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	c.ras.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	c.ras.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	c.ras.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	c.ras.ClosePath()
	c.fill(col)
}
