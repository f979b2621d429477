// Package vizimage rasterises the visualization view: ranked titles laid out
// in centered, wrapping rows, each drawn at its rank's font size in its
// score color.
package vizimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/eringen/pollboard/rank"
)

const (
	DefaultWidth = 1200
	padding      = 20
	gap          = 16
	dpi          = 72
)

// Renderer draws visualizations with one font. It is safe for concurrent use;
// faces are created per call.
type Renderer struct {
	font *opentype.Font
}

// New returns a Renderer using the Go Regular face.
func New() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse default font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// NewFromFile loads a TrueType/OpenType font, e.g. a CJK face for the
// Chinese and Japanese titles the Go fonts cannot draw.
func NewFromFile(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Renderer{font: f}, nil
}

// Options controls one rendering.
type Options struct {
	Width   int  // layout width in pixels (default DefaultWidth)
	Compact bool // use the compact font tier
	Scale   int  // optional output width; the image is down-scaled to it
}

type placed struct {
	item   rank.Item
	face   font.Face
	width  int
	ascent int
	height int
	x, y   int
}

// Render draws items and returns the image.
func (r *Renderer) Render(items []rank.Item, opts Options) (image.Image, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	faces := make(map[int]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	words := make([]placed, 0, len(items))
	for _, it := range items {
		size := it.FontSize
		if opts.Compact {
			size = it.CompactSize
		}
		face, ok := faces[size]
		if !ok {
			var err error
			face, err = opentype.NewFace(r.font, &opentype.FaceOptions{
				Size:    float64(size),
				DPI:     dpi,
				Hinting: font.HintingFull,
			})
			if err != nil {
				return nil, fmt.Errorf("create face %dpx: %w", size, err)
			}
			faces[size] = face
		}
		m := face.Metrics()
		adv := font.MeasureString(face, it.Title)
		words = append(words, placed{
			item:   it,
			face:   face,
			width:  adv.Ceil(),
			ascent: m.Ascent.Ceil(),
			height: (m.Ascent + m.Descent).Ceil(),
		})
	}

	height := layout(words, width)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, w := range words {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(w.item.Color.Color()),
			Face: w.face,
			Dot:  fixed.P(w.x, w.y+w.ascent),
		}
		d.DrawString(w.item.Title)
	}

	if opts.Scale > 0 && opts.Scale < width {
		return downscale(img, opts.Scale), nil
	}
	return img, nil
}

// layout assigns positions like a centered flex-wrap container and returns
// the total height.
func layout(words []placed, width int) int {
	inner := width - 2*padding
	y := padding
	for start := 0; start < len(words); {
		end := start
		lineW, lineH := 0, 0
		for end < len(words) {
			w := words[end].width
			next := lineW + w
			if end > start {
				next += gap
			}
			if end > start && next > inner {
				break
			}
			lineW = next
			if words[end].height > lineH {
				lineH = words[end].height
			}
			end++
		}

		x := padding + (inner-lineW)/2
		if x < padding {
			x = padding
		}
		for i := start; i < end; i++ {
			words[i].x = x
			words[i].y = y + (lineH-words[i].height)/2
			x += words[i].width + gap
		}
		y += lineH + gap
		start = end
	}
	if len(words) > 0 {
		y -= gap
	}
	return y + padding
}

func downscale(src image.Image, width int) image.Image {
	b := src.Bounds()
	h := b.Dy() * width / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WritePNG renders items and encodes them as PNG.
func (r *Renderer) WritePNG(w io.Writer, items []rank.Item, opts Options) error {
	img, err := r.Render(items, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
