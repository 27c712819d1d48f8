package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/config"
	"github.com/milk9111/tilescene/display"
	"github.com/milk9111/tilescene/edit"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/render"
	"github.com/milk9111/tilescene/scene"
	"github.com/milk9111/tilescene/script"
	"github.com/rs/zerolog/log"
)

const (
	panSpeed   = 0.5
	cameraEase = 0.2
)

var boxKinds = []collision.Kind{collision.KindWall, collision.KindTouch, collision.KindButton, collision.KindDoor}

// Viewer shows one scene and forwards mouse and keyboard input to an edit
// session.
type Viewer struct {
	cfg      config.Config
	manager  *scene.Manager
	session  *edit.Session
	tiles    *display.Tilemap
	boxes    *display.Boxes
	screen   *render.Screen
	textures *render.Textures
	runtime  *script.Runtime
	watcher  *scene.Watcher

	// target is where the camera eases to; arrow keys and doors move it.
	target geom.Vec

	brushes []string
	brush   int
	kind    int
	status  string
}

func NewViewer(cfg config.Config, name string, watch bool) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		manager:  scene.NewManager(cfg.ScenesDir, scene.WithManagerLogger(log.Logger)),
		textures: render.NewTextures(cfg.TexturesDir),
	}
	v.screen = render.NewScreen(v.textures, cfg.TileSize)
	v.manager.OnChange(v.attach)
	if _, err := v.manager.Open(name); err != nil {
		return nil, err
	}
	if watch {
		w, err := scene.NewWatcher(cfg.ScenesDir)
		if err != nil {
			log.Warn().Err(err).Msg("scene watcher unavailable")
		} else {
			v.watcher = w
		}
	}
	return v, nil
}

// attach rebuilds the session and drawables for a newly active scene.
func (v *Viewer) attach(s *scene.Scene) {
	v.tiles = display.NewTilemap(nil, s.Loader.Texture())
	if sheet, err := v.textures.Sheet(s.Loader.Texture()); err == nil {
		v.tiles = display.NewTilemap(sheet, s.Loader.Texture())
		v.brushes = sheet.CompileList()
	} else {
		log.Warn().Err(err).Str("texture", s.Loader.Texture()).Msg("no atlas sheet, drawing placeholders")
		v.brushes = nil
		for _, l := range s.Tilemap.Layers() {
			v.brushes = append(v.brushes, l.Pool().Names()...)
		}
	}
	v.boxes = display.NewBoxes(s.Boxes, 100)
	v.session = edit.NewSession(s,
		edit.WithLogger(log.Logger),
		edit.WithUndoLimit(v.cfg.UndoLimit),
		edit.WithDisplay(v.tiles))
	v.brush = 0
	v.applyBrush()

	v.runtime = nil
	rt, err := script.Load(s.Loader.ScriptPath(), s.Tilemap, s.Boxes,
		script.WithLogger(log.Logger), script.WithDisplay(v.tiles))
	switch {
	case err == nil:
		v.runtime = rt
	case errors.Is(err, fs.ErrNotExist):
	default:
		log.Warn().Err(err).Msg("scene script did not compile")
	}

	c := s.Tilemap.CenterPoint()
	w, h := float64(baseWidth)/v.screen.TileSize, float64(baseHeight)/v.screen.TileSize
	v.target = geom.Vec{X: c.X - w/2, Y: c.Y - h/2}
	v.screen.Camera = v.target
	v.status = "opened " + s.Name()
}

func (v *Viewer) applyBrush() {
	if len(v.brushes) == 0 {
		return
	}
	v.session.SetBrush(edit.Brush{Atlas: v.brushes[v.brush], Rotation: v.session.Brush().Rotation})
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

func (v *Viewer) Update() error {
	v.pollWatcher()
	v.handleKeys()
	v.handleMouse()
	return nil
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	select {
	case change, ok := <-v.watcher.Changes:
		if !ok {
			v.watcher = nil
			return
		}
		cur := v.manager.Current()
		if cur == nil || change.Scene != cur.Name() {
			return
		}
		if v.session.Dirty() {
			v.status = "changed on disk, unsaved edits kept"
			return
		}
		if err := v.manager.Reload(); err != nil {
			v.status = "reload failed: " + err.Error()
		}
	default:
	}
}

func (v *Viewer) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		v.report(v.session.Undo())
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		v.report(v.session.Redo())
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := v.session.Save(); err != nil {
			v.status = "save failed: " + err.Error()
		} else {
			v.status = "saved"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.session.SetMode((v.session.Mode() + 1) % 3)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.session.Rotate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		v.kind = (v.kind + 1) % len(boxKinds)
		v.session.SetBoxKind(boxKinds[v.kind])
	}
	if n := len(v.brushes); n > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
			v.brush = (v.brush + 1) % n
			v.applyBrush()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
			v.brush = (v.brush + n - 1) % n
			v.applyBrush()
		}
	}
	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			if err := v.session.SetLayer(i); err != nil {
				v.status = err.Error()
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		v.boxes.SetVisible(!v.boxes.Visible())
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.target.X -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.target.X += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.target.Y -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.target.Y += panSpeed
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.screen.Zoom = math.Min(math.Max(v.screen.Zoom*math.Pow(1.1, dy), 0.25), 8)
	}
	v.screen.Camera.X = geom.Lerp(v.screen.Camera.X, v.target.X, cameraEase)
	v.screen.Camera.Y = geom.Lerp(v.screen.Camera.Y, v.target.Y, cameraEase)
}

func (v *Viewer) handleMouse() {
	mx, my := ebiten.CursorPosition()
	k := v.screen.TileSize * v.screen.Zoom
	world := geom.Vec{X: float64(mx)/k + v.screen.Camera.X, Y: float64(my)/k + v.screen.Camera.Y}
	cell := geom.Pt(int(math.Floor(world.X)), int(math.Floor(world.Y)))

	var err error
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		err = v.session.Click(cell, false)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		err = v.session.Click(cell, true)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		if v.runtime != nil {
			err = v.runtime.Touch(world, nil)
		}
		if err != nil {
			break
		}
		if door := v.manager.Current().Boxes.CollidePointKind(world, collision.KindDoor); len(door) > 0 {
			var spawn geom.Vec
			if _, spawn, err = v.manager.Follow(door[len(door)-1]); err == nil {
				w, h := float64(baseWidth)/k, float64(baseHeight)/k
				v.target = geom.Vec{X: spawn.X - w/2, Y: spawn.Y - h/2}
			}
		}
	}
	if err != nil {
		v.status = err.Error()
	}
}

func (v *Viewer) report(ok bool, err error) {
	switch {
	case err != nil:
		v.status = err.Error()
	case !ok:
		v.status = "nothing to do"
	default:
		v.status = ""
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.screen.Target = screen
	display.DrawAll(v.screen, []display.Drawable{v.tiles, v.boxes})

	dirty := ""
	if v.session.Dirty() {
		dirty = "*"
	}
	hud := fmt.Sprintf("%s%s  mode %s  layer %d  brush %s r%d  box %s  FPS %.0f\n%s",
		v.manager.Current().Name(), dirty, v.session.Mode(), v.session.ActiveLayer(),
		v.session.Brush().Atlas, v.session.Brush().Rotation, boxKinds[v.kind], ebiten.ActualFPS(), v.status)
	ebitenutil.DebugPrint(screen, hud)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

