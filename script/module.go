package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
)

// sceneModule builds the object handed to handlers as their first argument.
func (r *Runtime) sceneModule() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_tile"] = &tengo.UserFunction{Name: "set_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		l, ok := r.layerArg(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		cell, ok := cellArg(args[1], args[2])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "x/y", Expected: "int", Found: args[1].TypeName()}
		}
		atlasName, ok := tengo.ToString(args[3])
		if !ok || atlasName == "" {
			return nil, tengo.ErrInvalidArgumentType{Name: "atlas", Expected: "string", Found: args[3].TypeName()}
		}
		rot := 0
		if len(args) > 4 {
			rot, _ = tengo.ToInt(args[4])
		}
		if t := l.TileCovering(cell); t != nil && t.IsCondensed() {
			l.ExplodeTile(t)
		}
		l.SetTile(cell, geom.Pt(1, 1), atlasName, rot)
		r.changed = true
		return tengo.TrueValue, nil
	}}

	values["remove_tile"] = &tengo.UserFunction{Name: "remove_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		l, ok := r.layerArg(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		cell, ok := cellArg(args[1], args[2])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "x/y", Expected: "int", Found: args[1].TypeName()}
		}
		if t := l.TileCovering(cell); t != nil && t.IsCondensed() {
			l.ExplodeTile(t)
		}
		if !l.RemoveTile(cell) {
			return tengo.FalseValue, nil
		}
		r.changed = true
		return tengo.TrueValue, nil
	}}

	values["find_tile"] = &tengo.UserFunction{Name: "find_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		l, ok := r.layerArg(args[0])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		cell, ok := cellArg(args[1], args[2])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "x/y", Expected: "int", Found: args[1].TypeName()}
		}
		t := l.TileCovering(cell)
		if t == nil {
			return tengo.UndefinedValue, nil
		}
		return tengo.FromInterface(tileValue(t))
	}}

	values["collide"] = &tengo.UserFunction{Name: "collide", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return nil, tengo.ErrInvalidArgumentType{Name: "x/y", Expected: "float", Found: args[0].TypeName()}
		}
		var out []any
		for _, b := range r.boxes.CollidePoint(geom.Vec{X: x, Y: y}) {
			out = append(out, boxValue(b))
		}
		return tengo.FromInterface(out)
	}}

	values["group"] = &tengo.UserFunction{Name: "group", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, _ := tengo.ToString(args[0])
		g := r.boxes.Group(name)
		if g == nil {
			return tengo.UndefinedValue, nil
		}
		var out []any
		for _, b := range g.Members() {
			out = append(out, boxValue(b))
		}
		return tengo.FromInterface(out)
	}}

	values["layer_count"] = &tengo.UserFunction{Name: "layer_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.tm.LayerCount())}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (r *Runtime) layerArg(obj tengo.Object) (*tilemap.Layer, bool) {
	i, ok := tengo.ToInt(obj)
	if !ok {
		return nil, false
	}
	l := r.tm.Layer(i)
	return l, l != nil
}

func cellArg(x, y tengo.Object) (geom.Point, bool) {
	xi, okX := tengo.ToInt(x)
	yi, okY := tengo.ToInt(y)
	return geom.Pt(xi, yi), okX && okY
}
