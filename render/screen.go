package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilescene/display"
	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/colornames"
)

var overlayColors = map[string]color.RGBA{
	"wall":     colornames.Steelblue,
	"box":      colornames.Gold,
	"button":   colornames.Orange,
	"door":     colornames.Limegreen,
	"inactive": colornames.Gray,
}

// Screen draws batches onto Target. Quads are in tile units; Camera is the
// tile coordinate shown at the top-left corner.
type Screen struct {
	Target   *ebiten.Image
	Textures *Textures
	TileSize float64
	Camera   geom.Vec
	Zoom     float64

	missing map[string]bool
}

func NewScreen(tex *Textures, tileSize int) *Screen {
	return &Screen{Textures: tex, TileSize: float64(tileSize), Zoom: 1, missing: map[string]bool{}}
}

func (s *Screen) scale() float64 {
	z := s.Zoom
	if z <= 0 {
		z = 1
	}
	return s.TileSize * z
}

func (s *Screen) toScreen(r geom.Rect) (x, y, w, h float32) {
	k := s.scale()
	return float32((r.X - s.Camera.X) * k), float32((r.Y - s.Camera.Y) * k),
		float32(r.Width * k), float32(r.Height * k)
}

func (s *Screen) Draw(b *display.Batch) {
	if s.Target == nil || b == nil {
		return
	}
	var img *ebiten.Image
	if b.Texture != "" && !s.missing[b.Texture] {
		var err error
		img, err = s.Textures.Image(b.Texture)
		if err != nil {
			// logged once per texture, later batches draw placeholders
			log.Warn().Err(err).Str("texture", b.Texture).Msg("texture unavailable")
			s.missing[b.Texture] = true
		}
	}
	for _, q := range b.Quads {
		switch {
		case b.Texture == "":
			s.drawOverlay(q)
		case img == nil || q.Placeholder:
			x, y, w, h := s.toScreen(q.Dst)
			vector.DrawFilledRect(s.Target, x, y, w, h, colornames.Crimson, false)
		default:
			s.drawQuad(img, q)
		}
	}
}

func (s *Screen) drawQuad(img *ebiten.Image, q display.Quad) {
	sub, ok := img.SubImage(q.Src).(*ebiten.Image)
	if !ok {
		return
	}
	sw, sh := float64(q.Src.Dx()), float64(q.Src.Dy())
	if sw == 0 || sh == 0 {
		return
	}
	k := s.scale()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-sw/2, -sh/2)
	op.GeoM.Rotate(float64(q.Rotation) * math.Pi / 2)
	op.GeoM.Scale(q.Dst.Width*k/sw, q.Dst.Height*k/sh)
	op.GeoM.Translate((q.Dst.X-s.Camera.X+q.Dst.Width/2)*k, (q.Dst.Y-s.Camera.Y+q.Dst.Height/2)*k)
	s.Target.DrawImage(sub, op)
}

func (s *Screen) drawOverlay(q display.Quad) {
	c, ok := overlayColors[q.Tag]
	if !ok {
		c = colornames.White
	}
	x, y, w, h := s.toScreen(q.Dst)
	fill := color.RGBA{R: c.R / 3, G: c.G / 3, B: c.B / 3, A: 85}
	vector.DrawFilledRect(s.Target, x, y, w, h, fill, false)
	vector.StrokeRect(s.Target, x, y, w, h, 1.0, c, false)
}
