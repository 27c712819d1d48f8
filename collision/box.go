// Package collision holds the wall, trigger, button and door regions of a
// scene and answers point and rectangle queries against them.
package collision

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilescene/geom"
)

type Kind int

const (
	KindWall Kind = iota
	KindTouch
	KindButton
	KindDoor
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindTouch:
		return "box"
	case KindButton:
		return "button"
	case KindDoor:
		return "door"
	default:
		return "unknown"
	}
}

// ParseKind maps an XML tag onto a Kind.
func ParseKind(tag string) (Kind, bool) {
	switch strings.ToLower(tag) {
	case "wall":
		return KindWall, true
	case "box", "touch", "trigger":
		return KindTouch, true
	case "button":
		return KindButton, true
	case "door":
		return KindDoor, true
	default:
		return 0, false
	}
}

// DoorFields are present only on door boxes.
type DoorFields struct {
	Name   string
	Scene  string // destination scene path
	Marker string // door marker in the destination scene
	Offset geom.Vec
}

// Box is one axis-aligned region in tile space.
type Box struct {
	seq    uint64
	kind   Kind
	region geom.Rect

	Name  string
	Event string
	Bind  string
	Cond  string

	group *WallGroup
	door  *DoorFields
	owner *Container
}

func (b *Box) Kind() Kind        { return b.kind }
func (b *Box) Region() geom.Rect { return b.region }

// SetRegion moves or resizes the box.
func (b *Box) SetRegion(r geom.Rect) {
	b.region = r
	if b.owner != nil {
		b.owner.markDirty()
	}
}

// Door returns the door fields, nil unless the box is a door.
func (b *Box) Door() *DoorFields { return b.door }

// Group returns the wall group the box belongs to, if any.
func (b *Box) Group() *WallGroup { return b.group }

// SetGroup moves the box into g, or out of any group when g is nil.
func (b *Box) SetGroup(g *WallGroup) {
	if b.group == g {
		return
	}
	if b.group != nil {
		b.group.remove(b)
	}
	b.group = g
	if g != nil {
		g.members = append(g.members, b)
	}
}

// Flags answers the condition named by a box's "if" attribute.
type Flags interface {
	Has(flag string) bool
}

// Active reports whether the box's condition holds. Boxes without a
// condition are always active; a leading "!" negates the flag.
func (b *Box) Active(flags Flags) bool {
	cond := strings.TrimSpace(b.Cond)
	if cond == "" {
		return true
	}
	negate := strings.HasPrefix(cond, "!")
	cond = strings.TrimPrefix(cond, "!")
	has := flags != nil && flags.Has(cond)
	return has != negate
}

func (b *Box) String() string {
	return fmt.Sprintf("%s%v", b.kind, b.region)
}

// WallGroup names a set of boxes that share one script binding. Groups
// outlive their members so later boxes can rejoin them.
type WallGroup struct {
	name    string
	members []*Box
}

func (g *WallGroup) Name() string { return g.name }

// Members returns the boxes currently in the group.
func (g *WallGroup) Members() []*Box {
	out := make([]*Box, len(g.members))
	copy(out, g.members)
	return out
}

func (g *WallGroup) remove(b *Box) {
	for i, m := range g.members {
		if m == b {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}
