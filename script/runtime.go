// Package script runs a scene's tengo script against its tilemap and
// collision boxes. Scripts register handlers by name:
//
//	handlers.open_gate = func(scene, box) {
//		scene.remove_tile(0, 4, 2)
//	}
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const prelude = "handlers := {}\n"

const dispatch = `
if __call != "" {
	__handler := handlers[__call]
	if is_callable(__handler) {
		__result = __handler(__scene, __args)
		__found = true
	}
}
`

// Runtime owns one compiled scene script.
type Runtime struct {
	tm       *tilemap.Manipulator
	boxes    *collision.Container
	compiled *tengo.Compiled
	display  tilemap.Display
	log      zerolog.Logger

	changed bool
}

type Option func(*Runtime)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runtime) {
		r.log = logger
	}
}

// WithDisplay pushes a snapshot to d after a call that edited tiles.
func WithDisplay(d tilemap.Display) Option {
	return func(r *Runtime) {
		r.display = d
	}
}

// Load compiles the script at path.
func Load(path string, tm *tilemap.Manipulator, boxes *collision.Container, opts ...Option) (*Runtime, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	rt, err := New(src, tm, boxes, opts...)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return rt, nil
}

func New(src []byte, tm *tilemap.Manipulator, boxes *collision.Container, opts ...Option) (*Runtime, error) {
	rt := &Runtime{tm: tm, boxes: boxes, log: log.Logger}
	for _, opt := range opts {
		opt(rt)
	}

	full := prelude + string(src) + "\n" + dispatch
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__call", "")
	_ = s.Add("__args", map[string]any{})
	_ = s.Add("__scene", map[string]any{})
	_ = s.Add("__result", nil)
	_ = s.Add("__found", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}
	rt.compiled = compiled
	return rt, nil
}

// Call runs the handler registered under name. It reports whether such a
// handler exists.
func (r *Runtime) Call(name string, args map[string]any) (bool, error) {
	obj, err := tengo.FromInterface(args)
	if err != nil {
		return false, fmt.Errorf("script: call %s: %w", name, err)
	}
	for key, val := range map[string]any{
		"__call":   name,
		"__args":   obj,
		"__scene":  r.sceneModule(),
		"__result": nil,
		"__found":  false,
	} {
		if err := r.compiled.Set(key, val); err != nil {
			return false, err
		}
	}
	r.changed = false
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("script: call %s: %w", name, err)
	}
	if r.changed && r.display != nil {
		r.tm.UpdateDisplay(r.display)
	}
	return r.compiled.Get("__found").Bool(), nil
}

// Result returns the value the last handler returned.
func (r *Runtime) Result() any {
	return r.compiled.Get("__result").Value()
}

// Fire calls the handler bound to b: its event, else its binding, else its
// wall group.
func (r *Runtime) Fire(b *collision.Box) (bool, error) {
	name := b.Event
	if name == "" {
		name = b.Bind
	}
	if name == "" && b.Group() != nil {
		name = b.Group().Name()
	}
	if name == "" {
		return false, nil
	}
	return r.Call(name, boxValue(b))
}

// Touch fires every active box containing p, bottom to top.
func (r *Runtime) Touch(p geom.Vec, flags collision.Flags) error {
	for _, b := range r.boxes.CollidePoint(p) {
		if !b.Active(flags) {
			continue
		}
		if _, err := r.Fire(b); err != nil {
			return err
		}
	}
	return nil
}

func boxValue(b *collision.Box) map[string]any {
	reg := b.Region()
	v := map[string]any{
		"kind":  b.Kind().String(),
		"name":  b.Name,
		"event": b.Event,
		"bind":  b.Bind,
		"x":     reg.X,
		"y":     reg.Y,
		"w":     reg.Width,
		"h":     reg.Height,
	}
	if g := b.Group(); g != nil {
		v["group"] = g.Name()
	}
	if d := b.Door(); d != nil {
		v["dest"] = d.Marker
		v["path"] = d.Scene
	}
	return v
}

func tileValue(t *tilemap.Tile) map[string]any {
	return map[string]any{
		"x":     t.Position().X,
		"y":     t.Position().Y,
		"w":     t.Fill().X,
		"h":     t.Fill().Y,
		"r":     t.Rotation(),
		"atlas": t.AtlasName(),
	}
}
