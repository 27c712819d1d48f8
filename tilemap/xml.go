package tilemap

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/milk9111/tilescene/geom"
)

// LoadXML appends the tiles described by el's children. Each child's tag is
// the atlas name; x/y give the position, w/h the fill (0 or absent means 1)
// and r the rotation, taken mod 4.
func (l *Layer) LoadXML(el *etree.Element) {
	if el == nil {
		return
	}
	if name := el.SelectAttrValue("name", ""); name != "" {
		l.name = name
	}
	for _, child := range el.ChildElements() {
		pos := geom.Pt(l.attrInt(child, "x", 0), l.attrInt(child, "y", 0))
		fill := geom.Pt(l.attrInt(child, "w", 1), l.attrInt(child, "h", 1))
		if fill.X == 0 {
			fill.X = 1
		}
		if fill.Y == 0 {
			fill.Y = 1
		}
		if prev, dup := l.index[pos]; dup {
			l.log.Warn().Stringer("pos", pos).Str("atlas", prev.AtlasName()).
				Msg("duplicate tile position in layer xml, later entry wins")
			prev.SetFill(fill)
			prev.SetRotation(l.attrInt(child, "r", 0))
			prev.atlas = l.pool.Get(child.Tag)
			continue
		}
		t := &Tile{pos: pos, layer: l}
		t.SetFill(fill)
		t.SetRotation(l.attrInt(child, "r", 0))
		t.atlas = l.pool.Get(child.Tag)
		l.tiles = append(l.tiles, t)
		l.index[pos] = t
	}
	l.resort()
}

// GenerateXML writes one child per tile into el in the minimal form: x and y
// always, w and h only when above 1, r only when non-zero.
func (l *Layer) GenerateXML(el *etree.Element) {
	if l.name != "" {
		el.CreateAttr("name", l.name)
	}
	for _, t := range l.tiles {
		c := el.CreateElement(t.AtlasName())
		c.CreateAttr("x", strconv.Itoa(t.pos.X))
		c.CreateAttr("y", strconv.Itoa(t.pos.Y))
		if t.fill.X > 1 {
			c.CreateAttr("w", strconv.Itoa(t.fill.X))
		}
		if t.fill.Y > 1 {
			c.CreateAttr("h", strconv.Itoa(t.fill.Y))
		}
		if t.rotation != 0 {
			c.CreateAttr("r", strconv.Itoa(t.rotation))
		}
	}
}

func (l *Layer) attrInt(el *etree.Element, key string, def int) int {
	raw := el.SelectAttrValue(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		l.log.Warn().Str("tag", el.Tag).Str("attr", key).Str("value", raw).
			Msg("bad integer attribute, using default")
		return def
	}
	return v
}
