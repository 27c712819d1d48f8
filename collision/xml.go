package collision

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
	"github.com/milk9111/tilescene/geom"
)

// ErrDoorDestination is returned when a door element lacks dest or path.
var ErrDoorDestination = errors.New("collision: door without destination")

type stagedBox struct {
	box   *Box
	group string
}

// LoadXML appends the boxes described by el's children. Either every child
// loads or nothing is added.
func (c *Container) LoadXML(el *etree.Element) error {
	if el == nil {
		return nil
	}
	var staged []stagedBox
	for _, child := range el.ChildElements() {
		kind, ok := ParseKind(child.Tag)
		if !ok {
			c.log.Warn().Str("tag", child.Tag).Msg("unknown collision element, skipping")
			continue
		}
		s, err := parseBox(kind, child)
		if err != nil {
			return fmt.Errorf("collision: load %s #%d: %w", child.Tag, len(staged), err)
		}
		staged = append(staged, s)
	}
	for _, s := range staged {
		c.attach(s.box)
		if s.group != "" {
			s.box.SetGroup(c.CreateGroup(s.group))
		}
	}
	c.log.Debug().Int("boxes", len(staged)).Int("groups", len(c.groups)).Msg("collision boxes loaded")
	return nil
}

func parseBox(kind Kind, el *etree.Element) (stagedBox, error) {
	var vals [4]float64
	for i, key := range []string{"x", "y", "w", "h"} {
		v, err := attrFloat(el, key)
		if err != nil {
			return stagedBox{}, err
		}
		vals[i] = v
	}
	b := newBox(kind)
	b.region = geom.R(vals[0], vals[1], vals[2], vals[3])
	b.Name = el.SelectAttrValue("name", "")
	b.Event = el.SelectAttrValue("event", "")
	b.Bind = el.SelectAttrValue("bind", "")
	b.Cond = el.SelectAttrValue("if", "")

	s := stagedBox{box: b}
	if kind == KindWall {
		s.group = b.Bind
	}
	if kind != KindDoor {
		return s, nil
	}

	dest, path := el.SelectAttrValue("dest", ""), el.SelectAttrValue("path", "")
	if dest == "" || path == "" {
		return stagedBox{}, ErrDoorDestination
	}
	ox, err := attrFloat(el, "ox")
	if err != nil {
		return stagedBox{}, err
	}
	oy, err := attrFloat(el, "oy")
	if err != nil {
		return stagedBox{}, err
	}
	b.door.Name = b.Name
	b.door.Marker = dest
	b.door.Scene = path
	b.door.Offset = geom.Vec{X: ox, Y: oy}
	return s, nil
}

func attrFloat(el *etree.Element, key string) (float64, error) {
	raw := el.SelectAttrValue(key, "")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s=%q: %w", key, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("attribute %s=%q: not a finite number", key, raw)
	}
	return v, nil
}

// GenerateXML replaces the box children of el with the container's boxes.
// Other children are left alone.
func (c *Container) GenerateXML(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if _, ok := ParseKind(child.Tag); ok {
			el.RemoveChild(child)
		}
	}
	for _, b := range c.boxes {
		e := el.CreateElement(b.kind.String())
		e.CreateAttr("x", formatFloat(b.region.X))
		e.CreateAttr("y", formatFloat(b.region.Y))
		e.CreateAttr("w", formatFloat(b.region.Width))
		e.CreateAttr("h", formatFloat(b.region.Height))
		name := b.Name
		if name == "" && b.door != nil {
			name = b.door.Name
		}
		setOptional(e, "name", name)
		setOptional(e, "event", b.Event)
		bind := b.Bind
		if b.group != nil {
			bind = b.group.name
		}
		setOptional(e, "bind", bind)
		setOptional(e, "if", b.Cond)
		if d := b.door; d != nil {
			e.CreateAttr("dest", d.Marker)
			e.CreateAttr("path", d.Scene)
			if d.Offset.X != 0 {
				e.CreateAttr("ox", formatFloat(d.Offset.X))
			}
			if d.Offset.Y != 0 {
				e.CreateAttr("oy", formatFloat(d.Offset.Y))
			}
		}
	}
}

func setOptional(e *etree.Element, key, value string) {
	if value != "" {
		e.CreateAttr(key, value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
