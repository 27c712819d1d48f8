// Package scene reads and writes scene documents and keeps the tilemap and
// collision boxes of the active scene.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotLoaded   = errors.New("scene: not loaded")
	ErrNoSceneRoot = errors.New("scene: missing <scene> root")
)

const (
	sceneExt  = ".xml"
	scriptExt = ".tengo"
)

// Loader owns the XML document of one scene file. Load and Save are the
// only operations touching the document.
type Loader struct {
	dir string
	log zerolog.Logger

	name string
	path string
	doc  *etree.Document

	tilemap     *etree.Element
	boxes       *etree.Element
	boundary    geom.Rect
	hasBoundary bool
	texture     string
	script      string
}

type Option func(*Loader)

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.log = logger
	}
}

// NewLoader returns an unloaded loader resolving scene names against dir.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{dir: dir, log: log.Logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ResolvePath maps a scene name to its file under dir. Absolute names are
// used as is and a missing extension becomes .xml.
func ResolvePath(dir, name string) string {
	if filepath.Ext(name) == "" {
		name += sceneExt
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

// Load parses the named scene. On failure the loader keeps whatever it had
// loaded before.
func (l *Loader) Load(name string) error {
	path := ResolvePath(l.dir, name)
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return fmt.Errorf("scene: load %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "scene" {
		return fmt.Errorf("scene: load %s: %w", path, ErrNoSceneRoot)
	}

	next := Loader{dir: l.dir, log: l.log, name: sceneName(name), path: path, doc: doc}
	next.tilemap = root.SelectElement("tilemap")
	next.boxes = root.SelectElement("collisionboxes")
	if b := root.SelectElement("boundary"); b != nil {
		r, err := parseBoundary(b)
		if err != nil {
			return fmt.Errorf("scene: load %s: %w", path, err)
		}
		next.boundary, next.hasBoundary = r, true
	}
	next.texture = textureName(root, next.tilemap)
	next.script = root.SelectAttrValue("script", "")
	if next.script == "" {
		next.script = strings.TrimSuffix(path, filepath.Ext(path)) + scriptExt
	} else if !filepath.IsAbs(next.script) {
		next.script = filepath.Join(filepath.Dir(path), filepath.FromSlash(next.script))
	}

	*l = next
	l.log.Debug().Str("scene", l.name).Str("path", path).Bool("tilemap", l.tilemap != nil).
		Bool("collision", l.boxes != nil).Msg("scene loaded")
	return nil
}

func sceneName(name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseBoundary reads x, y, w and h. x and y default to 0; w and h are
// required.
func parseBoundary(el *etree.Element) (geom.Rect, error) {
	var vals [4]float64
	for i, key := range []string{"x", "y", "w", "h"} {
		raw := el.SelectAttrValue(key, "")
		if raw == "" {
			if i >= 2 {
				return geom.Rect{}, fmt.Errorf("boundary: missing %s", key)
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("boundary %s=%q: %w", key, raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geom.Rect{}, fmt.Errorf("boundary %s=%q: not a finite number", key, raw)
		}
		vals[i] = v
	}
	return geom.R(vals[0], vals[1], vals[2], vals[3]), nil
}

func textureName(root, tm *etree.Element) string {
	if tm != nil {
		if tex := tm.SelectAttrValue("texture", ""); tex != "" {
			return tex
		}
	}
	if el := root.SelectElement("texture"); el != nil {
		if tex := el.SelectAttrValue("name", ""); tex != "" {
			return tex
		}
	}
	return root.SelectAttrValue("texture", "")
}

func (l *Loader) Loaded() bool { return l.doc != nil }

func (l *Loader) Name() string { return l.name }
func (l *Loader) Path() string { return l.path }

// Tilemap returns the <tilemap> element, or nil when the scene has none.
func (l *Loader) Tilemap() *etree.Element { return l.tilemap }

// CollisionBoxes returns the <collisionboxes> element, or nil.
func (l *Loader) CollisionBoxes() *etree.Element { return l.boxes }

// Boundary is only meaningful when HasBoundary is true.
func (l *Loader) Boundary() geom.Rect { return l.boundary }
func (l *Loader) HasBoundary() bool   { return l.hasBoundary }

// SetBoundary replaces the <boundary> element. It takes effect on Save.
func (l *Loader) SetBoundary(r geom.Rect) error {
	if !l.Loaded() {
		return ErrNotLoaded
	}
	root := l.doc.Root()
	el := root.SelectElement("boundary")
	if el == nil {
		el = etree.NewElement("boundary")
		root.InsertChildAt(0, el)
	}
	el.Attr = nil
	if r.X != 0 || r.Y != 0 {
		el.CreateAttr("x", strconv.FormatFloat(r.X, 'g', -1, 64))
		el.CreateAttr("y", strconv.FormatFloat(r.Y, 'g', -1, 64))
	}
	el.CreateAttr("w", strconv.FormatFloat(r.Width, 'g', -1, 64))
	el.CreateAttr("h", strconv.FormatFloat(r.Height, 'g', -1, 64))
	l.boundary, l.hasBoundary = r, true
	return nil
}

func (l *Loader) Texture() string    { return l.texture }
func (l *Loader) ScriptPath() string { return l.script }

// Document exposes the parsed document for tools that edit other parts of
// the scene.
func (l *Loader) Document() *etree.Document { return l.doc }

// Save rewrites the layers under <tilemap> and the boxes under
// <collisionboxes>, creating either element when missing, and writes the
// document back to the file it was loaded from. A nil tm or boxes leaves the
// matching element untouched. An external tilemap path is dropped because
// every layer is written inline.
func (l *Loader) Save(tm *tilemap.Manipulator, boxes *collision.Container) error {
	if !l.Loaded() {
		return ErrNotLoaded
	}
	root := l.doc.Root()
	if tm != nil {
		if l.tilemap == nil {
			l.tilemap = root.CreateElement("tilemap")
			if l.texture != "" {
				l.tilemap.CreateAttr("texture", l.texture)
			}
		}
		for _, el := range l.tilemap.SelectElements("layer") {
			l.tilemap.RemoveChild(el)
		}
		l.tilemap.RemoveAttr("path")
		tm.Generate(l.tilemap)
	}
	if boxes != nil {
		if l.boxes == nil {
			l.boxes = root.CreateElement("collisionboxes")
		}
		boxes.GenerateXML(l.boxes)
	}
	l.doc.Indent(2)
	if err := writeFile(l.path, l.doc); err != nil {
		return fmt.Errorf("scene: save %s: %w", l.path, err)
	}
	l.log.Info().Str("scene", l.name).Str("path", l.path).Msg("scene saved")
	return nil
}

// writeFile replaces path through a temporary file in the same directory.
func writeFile(path string, doc *etree.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scene-*")
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	// CreateTemp makes the file 0600; keep the mode of the file being replaced.
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Clean drops the document and returns the loader to the unloaded state.
func (l *Loader) Clean() {
	*l = Loader{dir: l.dir, log: l.log}
}
