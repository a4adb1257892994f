package octree

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// maxImageSide bounds the rendered image so a large scale cannot exhaust
// memory.
const maxImageSide = 1 << 14

var (
	nodeColor  = color.RGBA{255, 0, 0, 255}
	pointColor = color.RGBA{0, 255, 0, 255}
)

// Image renders the node layout projected onto the XY plane as a BMP: node
// boxes in red, points in green. scale maps tree units to pixels.
func (t *Octree[T]) Image(w io.Writer, scale float64) error {
	if !(scale > 0) {
		return errors.Errorf("invalid image scale %v", scale)
	}

	bounds := t.root.box
	// Checked in float64 so that overflowing extents cannot wrap around.
	fw := (float64(bounds.MaxX)-float64(bounds.MinX))*scale + 1
	fh := (float64(bounds.MaxY)-float64(bounds.MinY))*scale + 1
	if !(fw <= maxImageSide) || !(fh <= maxImageSide) {
		return errors.Errorf("image of %gx%g pixels exceeds %d per side", fw, fh, maxImageSide)
	}
	width, height := int(fw), int(fh)

	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	px := func(x T) int {
		return int((float64(x) - float64(bounds.MinX)) * scale)
	}
	// Image rows grow downwards, Y grows upwards.
	py := func(y T) int {
		return height - 1 - int((float64(y)-float64(bounds.MinY))*scale)
	}

	hLine := func(x1, y, x2 int, col color.Color) {
		for ; x1 <= x2; x1++ {
			frame.Set(x1, y, col)
		}
	}
	vLine := func(x, y1, y2 int, col color.Color) {
		for ; y1 <= y2; y1++ {
			frame.Set(x, y1, col)
		}
	}
	rect := func(x1, y1, x2, y2 int, col color.Color) {
		hLine(x1, y1, x2, col)
		hLine(x1, y2, x2, col)
		vLine(x1, y1, y2, col)
		vLine(x2, y1, y2, col)
	}

	var points []*Point[T]
	t.Walk(func(info NodeInfo[T]) bool {
		b := info.Bounds
		rect(px(b.MinX), py(b.MaxY), px(b.MaxX), py(b.MinY), nodeColor)
		points = append(points, info.Points...)
		return true
	})

	for _, p := range points {
		frame.Set(px(p.X), py(p.Y), pointColor)
	}

	return errors.Wrap(bmp.Encode(w, frame), "encoding octree image")
}

// ImageFile writes Image to path.
func (t *Octree[T]) ImageFile(path string, scale float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating octree image")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "closing octree image")
		}
	}()

	return t.Image(f, scale)
}
