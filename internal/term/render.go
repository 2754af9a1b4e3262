package term

import (
	"math"
	"sort"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"github.com/blockrun/game/internal/scene"
	"github.com/blockrun/game/internal/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// ZoomLevels are the cells per world unit the camera cycles through.
var ZoomLevels = []float32{1, 2, 0.5}

var glyphs = map[actor.Type]rune{
	actor.TypeGround:    '.',
	actor.TypeDecorator: '#',
	actor.TypePickup:    '*',
	actor.TypeNPC:       'X',
	actor.TypePlayer:    '@',
}

// layer orders drawing; higher layers overwrite lower ones.
var layer = map[actor.Type]int{
	actor.TypeGround:    0,
	actor.TypeDecorator: 1,
	actor.TypePickup:    2,
	actor.TypeNPC:       3,
	actor.TypePlayer:    4,
}

// Renderer draws a top-down view of the scene centred on the focus actor,
// with the HUD in the top-left corner and the active menu in the middle.
// World X runs across the screen and world -Z runs up it.
type Renderer struct {
	screen  tcell.Screen
	objects *scene.ObjectManager
	hud     *ui.Manager
	menu    *ui.Menu
	focus   *actor.Actor
	zoom    int

	drawList []*actor.Actor
	subs     event.Group
}

func NewRenderer(screen tcell.Screen, objects *scene.ObjectManager, hud *ui.Manager, menu *ui.Menu, focus *actor.Actor) *Renderer {
	return &Renderer{
		screen:   screen,
		objects:  objects,
		hud:      hud,
		menu:     menu,
		focus:    focus,
		drawList: make([]*actor.Actor, 0, 64),
	}
}

// Zoom is the current cells per world unit.
func (r *Renderer) Zoom() float32 { return ZoomLevels[r.zoom] }

// CycleZoom moves to the next zoom level.
func (r *Renderer) CycleZoom() { r.zoom = (r.zoom + 1) % len(ZoomLevels) }

// Subscribe cycles the zoom on camera events.
func (r *Renderer) Subscribe(bus *event.Bus) {
	r.subs.Subscribe(bus, event.CategoryCamera, func(d event.Data) {
		if d.Action == event.OnCameraCycle {
			r.CycleZoom()
		}
	})
}

func (r *Renderer) Close() { r.subs.Cancel() }

// Draw repaints the whole screen and shows it.
func (r *Renderer) Draw() {
	r.screen.Clear()
	w, h := r.screen.Size()

	r.drawList = r.drawList[:0]
	for _, list := range [][]*actor.Actor{r.objects.Opaque(), r.objects.Transparent()} {
		for _, a := range list {
			if _, ok := glyphs[a.Type]; ok && a.Status.Has(actor.StatusDrawn) {
				r.drawList = append(r.drawList, a)
			}
		}
	}
	sort.SliceStable(r.drawList, func(i, j int) bool {
		return layer[r.drawList[i].Type] < layer[r.drawList[j].Type]
	})

	for _, a := range r.drawList {
		if a.Type == actor.TypeGround {
			r.drawFootprint(a, w, h)
			continue
		}
		col, row := r.Project(a.Transform.Translation, w, h)
		r.put(col, row, glyphs[a.Type], styleFor(a.Effect), w, h)
	}

	for i, line := range r.hud.Lines() {
		r.text(1, i, line, tcell.StyleDefault.Bold(true), w, h)
	}
	if lines := r.menu.Lines(); len(lines) > 0 {
		top := h/2 - len(lines)/2
		for i, line := range lines {
			r.text(w/2-len(line)/2, top+i, line, tcell.StyleDefault.Reverse(true), w, h)
		}
	}
	r.screen.Show()
}

// Project maps a world position to a screen cell for a w x h screen. Columns
// are doubled to make up for tall terminal cells.
func (r *Renderer) Project(p mgl32.Vec3, w, h int) (col, row int) {
	var origin mgl32.Vec3
	if r.focus != nil {
		origin = r.focus.Transform.Translation
	}
	z := r.Zoom()
	col = w/2 + round((p.X()-origin.X())*z*2)
	row = h/2 + round((p.Z()-origin.Z())*z)
	return col, row
}

func (r *Renderer) drawFootprint(a *actor.Actor, w, h int) {
	t := a.Transform
	half := mgl32.Vec3{t.Scale.X() / 2, 0, t.Scale.Z() / 2}
	c0, r0 := r.Project(t.Translation.Sub(half), w, h)
	c1, r1 := r.Project(t.Translation.Add(half), w, h)
	style := styleFor(a.Effect)
	for row := max(r0, 0); row <= min(r1, h-1); row++ {
		for col := max(c0, 0); col <= min(c1, w-1); col++ {
			r.screen.SetContent(col, row, glyphs[a.Type], nil, style)
		}
	}
}

func (r *Renderer) put(col, row int, ch rune, style tcell.Style, w, h int) {
	if col < 0 || row < 0 || col >= w || row >= h {
		return
	}
	r.screen.SetContent(col, row, ch, nil, style)
}

func (r *Renderer) text(col, row int, s string, style tcell.Style, w, h int) {
	for _, ch := range s {
		r.put(col, row, ch, style, w, h)
		col++
	}
}

func styleFor(e actor.Effect) tcell.Style {
	c := e.Color
	if c == (mgl32.Vec3{}) {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(channel(c.X()), channel(c.Y()), channel(c.Z())))
}

func channel(v float32) int32 {
	return int32(mgl32.Clamp(v, 0, 1) * 255)
}

func round(v float32) int { return int(math.Round(float64(v))) }
