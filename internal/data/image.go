package data

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// rgb is a pixel colour packed as 0xRRGGBB.
type rgb uint32

const white rgb = 0xffffff

func parseColor(s string) (rgb, error) {
	hexStr := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hexStr) != 6 {
		return 0, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	return rgb(v), nil
}

// Expand decodes an encoded image and returns a placement for every pixel
// whose colour is mapped. Fully transparent and white pixels are skipped,
// as are colours with no mapping.
func (m ImageMap) Expand(encoded []byte) ([]Placement, error) {
	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	colors := make(map[rgb]string, len(m.Colors))
	for k, name := range m.Colors {
		c, err := parseColor(k)
		if err != nil {
			return nil, err
		}
		colors[c] = name
	}

	sx, sz := m.ScaleX, m.ScaleZ
	if sx == 0 {
		sx = 1
	}
	if sz == 0 {
		sz = 1
	}
	off := Vec3(m.Offset, mgl32.Vec3{})

	var out []Placement
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			c := rgb(r>>8)<<16 | rgb(g>>8)<<8 | rgb(bl>>8)
			if c == white {
				continue
			}
			name, ok := colors[c]
			if !ok {
				continue
			}
			px, py := x-b.Min.X, y-b.Min.Y
			out = append(out, Placement{
				ID:        fmt.Sprintf("%s_%d_%d", name, px, py),
				Archetype: name,
				Position: []float32{
					float32(px)*sx + off[0],
					m.Height + off[1],
					float32(py)*sz + off[2],
				},
			})
		}
	}
	return out, nil
}
