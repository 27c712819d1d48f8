// Package atlas interns texture atlas names so tiles can share them.
package atlas

import (
	"image"
	"sort"
)

// Texture is the slice of a texture atlas the tilemap core needs.
type Texture interface {
	// CompileList returns every atlas entry name.
	CompileList() []string
	// Entry returns the source rectangle for a named entry.
	Entry(name string) (image.Rectangle, bool)
}

// Handle is a shared reference to an interned atlas name. Tiles compare
// handles by identity; renaming through the pool updates every holder.
type Handle struct {
	name string
}

func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

func (h *Handle) String() string {
	return h.Name()
}

// Pool interns atlas names for one layer.
type Pool struct {
	byName map[string]*Handle
}

func NewPool() *Pool {
	return &Pool{byName: make(map[string]*Handle)}
}

// Get returns the handle for name, creating it on first use.
func (p *Pool) Get(name string) *Handle {
	if p.byName == nil {
		p.byName = make(map[string]*Handle)
	}
	if h, ok := p.byName[name]; ok {
		return h
	}
	h := &Handle{name: name}
	p.byName[name] = h
	return h
}

// Lookup returns the handle for name without interning it.
func (p *Pool) Lookup(name string) (*Handle, bool) {
	h, ok := p.byName[name]
	return h, ok
}

// Replace renames the handle for oldName in place, so every holder reads
// newName. If newName is already interned that handle stays canonical for
// Get; holders of the renamed handle can re-point through Canonical.
func (p *Pool) Replace(oldName, newName string) bool {
	h, ok := p.byName[oldName]
	if !ok {
		return false
	}
	if oldName == newName {
		return true
	}
	delete(p.byName, oldName)
	h.name = newName
	if _, exists := p.byName[newName]; !exists {
		p.byName[newName] = h
	}
	return true
}

// Canonical returns the interned handle carrying the same name as h.
func (p *Pool) Canonical(h *Handle) *Handle {
	if h == nil {
		return nil
	}
	return p.Get(h.name)
}

// Len returns the number of interned names.
func (p *Pool) Len() int {
	return len(p.byName)
}

// Names returns the interned names in sorted order.
func (p *Pool) Names() []string {
	out := make([]string, 0, len(p.byName))
	for name := range p.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// InvalidEntries returns every interned name tex has no entry for.
func (p *Pool) InvalidEntries(tex Texture) []string {
	var out []string
	for _, name := range p.Names() {
		if tex == nil {
			out = append(out, name)
			continue
		}
		if _, ok := tex.Entry(name); !ok {
			out = append(out, name)
		}
	}
	return out
}
