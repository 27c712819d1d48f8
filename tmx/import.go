// Package tmx imports Tiled maps into a tilemap and collision boxes.
package tmx

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/lafriks/go-tiled"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CollisionGroup is the object group whose objects become collision boxes.
const CollisionGroup = "collision"

type Result struct {
	Tilemap  *tilemap.Manipulator
	Boxes    *collision.Container
	Boundary geom.Rect
	// Tilesets lists the tileset names atlas entries are prefixed with.
	Tilesets []string
}

type Option func(*importer)

func WithLogger(logger zerolog.Logger) Option {
	return func(im *importer) {
		im.log = logger
	}
}

type importer struct {
	log zerolog.Logger
}

// Import reads the TMX file at path from fsys. Tiles become atlas entries
// named <tileset>_<id>, objects in the collision group become boxes and
// the layers are condensed.
func Import(fsys fs.FS, path string, opts ...Option) (*Result, error) {
	im := &importer{log: log.Logger}
	for _, opt := range opts {
		opt(im)
	}

	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("tmx: load %s: %w", path, err)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("tmx: %s: bad tile size %dx%d", path, m.TileWidth, m.TileHeight)
	}

	res := &Result{
		Tilemap:  tilemap.NewManipulator(tilemap.WithLogger(im.log)),
		Boxes:    collision.NewContainer(collision.WithLogger(im.log)),
		Boundary: geom.R(0, 0, float64(m.Width), float64(m.Height)),
	}
	for _, ts := range m.Tilesets {
		res.Tilesets = append(res.Tilesets, ts.Name)
	}

	for _, layer := range m.Layers {
		l := res.Tilemap.NewLayer()
		l.SetName(layer.Name)
		if len(layer.Tiles) != m.Width*m.Height {
			im.log.Warn().Str("layer", layer.Name).Msg("layer without tile data, skipping tiles")
			continue
		}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				tile := layer.Tiles[y*m.Width+x]
				if tile == nil || tile.IsNil() || tile.Tileset == nil {
					continue
				}
				rot, ok := rotation(tile)
				if !ok {
					im.log.Warn().Int("x", x).Int("y", y).Str("layer", layer.Name).
						Msg("mirrored tile has no rotation equivalent, importing unflipped")
				}
				l.SetTile(geom.Pt(x, y), geom.Pt(1, 1), AtlasName(tile.Tileset.Name, tile.ID), rot)
			}
		}
	}

	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	for _, og := range m.ObjectGroups {
		if !strings.EqualFold(og.Name, CollisionGroup) {
			continue
		}
		if err := im.importBoxes(res.Boxes, og, tw, th); err != nil {
			return nil, fmt.Errorf("tmx: %s: %w", path, err)
		}
	}

	ratio := res.Tilemap.CondenseMap()
	im.log.Info().Str("path", path).Int("layers", res.Tilemap.LayerCount()).
		Int("boxes", res.Boxes.Len()).Float64("ratio", ratio).Msg("tmx imported")
	return res, nil
}

// AtlasName is the atlas entry name used for a Tiled tile.
func AtlasName(tileset string, id uint32) string {
	return fmt.Sprintf("%s_%d", tileset, id)
}

// rotation maps Tiled flip flags onto quarter turns clockwise. Pure mirrors
// have no equivalent and report false.
func rotation(t *tiled.LayerTile) (int, bool) {
	h, v, d := t.HorizontalFlip, t.VerticalFlip, t.DiagonalFlip
	switch {
	case !h && !v && !d:
		return 0, true
	case h && !v && d:
		return 1, true
	case h && v && !d:
		return 2, true
	case !h && v && d:
		return 3, true
	default:
		return 0, false
	}
}

func (im *importer) importBoxes(c *collision.Container, og *tiled.ObjectGroup, tw, th float64) error {
	for _, o := range og.Objects {
		kindName := o.Class
		if kindName == "" {
			kindName = o.Type //nolint:staticcheck // older maps use type=
		}
		if kindName == "" {
			kindName = o.Properties.GetString("kind")
		}
		kind := collision.KindWall
		if kindName != "" {
			k, ok := collision.ParseKind(kindName)
			if !ok {
				im.log.Warn().Str("object", o.Name).Str("kind", kindName).Msg("unknown box kind, skipping")
				continue
			}
			kind = k
		}
		if kind == collision.KindDoor {
			if o.Properties.GetString("dest") == "" || o.Properties.GetString("path") == "" {
				return fmt.Errorf("object %q: %w", o.Name, collision.ErrDoorDestination)
			}
		}

		b := c.AddBox(kind)
		b.SetRegion(geom.R(o.X/tw, o.Y/th, o.Width/tw, o.Height/th))
		b.Name = o.Name
		b.Event = o.Properties.GetString("event")
		b.Bind = o.Properties.GetString("bind")
		b.Cond = o.Properties.GetString("if")
		if kind == collision.KindWall && b.Bind != "" {
			b.SetGroup(c.CreateGroup(b.Bind))
		}
		if d := b.Door(); d != nil {
			d.Name = o.Name
			d.Marker = o.Properties.GetString("dest")
			d.Scene = o.Properties.GetString("path")
			d.Offset = geom.Vec{X: o.Properties.GetFloat("ox"), Y: o.Properties.GetFloat("oy")}
		}
	}
	return nil
}
