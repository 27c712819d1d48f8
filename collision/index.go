package collision

import (
	"math"

	"github.com/milk9111/tilescene/geom"
	"github.com/solarlune/resolv"
)

const (
	// indexScale converts tile units to index units.
	indexScale = 16.0
	// indexCell is the smallest cell side in index units (4 tiles).
	indexCell = 64
	// maxIndexCells bounds the grid along each axis. Wider worlds get
	// larger cells instead of more of them.
	maxIndexCells = 128
	// maxIndexSpan is the widest extent, in index units, the grid is built
	// for. Past it queries scan every box.
	maxIndexSpan = 1 << 40
)

// index is a broad phase over the boxes of a container. Boxes are registered
// in every cell their padded bounds touch; exact tests happen in the caller.
type index struct {
	space      *resolv.Space
	origin     geom.Vec
	cell       float64
	cols, rows int

	// linear holds every box when the extent is too wide for a grid.
	linear []*Box
}

func finite(r geom.Rect) bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func buildIndex(boxes []*Box) *index {
	// boxes with a non-finite region can never match a query
	var live []*Box
	for _, b := range boxes {
		if finite(b.region) {
			live = append(live, b)
		}
	}
	if len(live) == 0 {
		return &index{}
	}
	bounds := live[0].region
	for _, b := range live[1:] {
		bounds = bounds.Union(b.region)
	}
	span := math.Max(bounds.Width, bounds.Height) * indexScale
	if span > maxIndexSpan {
		return &index{linear: live}
	}

	cell := math.Max(indexCell, math.Ceil(span/(maxIndexCells-3)))
	// one cell of margin on every side keeps padded objects inside the space
	margin := cell / indexScale
	origin := geom.Vec{X: bounds.X - margin, Y: bounds.Y - margin}
	cols := int(math.Ceil((bounds.Width+2*margin)*indexScale/cell)) + 1
	rows := int(math.Ceil((bounds.Height+2*margin)*indexScale/cell)) + 1

	c := int(cell)
	idx := &index{
		space:  resolv.NewSpace(cols*c, rows*c, c, c),
		origin: origin,
		cell:   cell,
		cols:   cols,
		rows:   rows,
	}
	for _, b := range live {
		x, y := idx.toSpace(geom.Vec{X: b.region.X, Y: b.region.Y})
		obj := resolv.NewObject(x-1, y-1, b.region.Width*indexScale+2, b.region.Height*indexScale+2)
		obj.Data = b
		idx.space.Add(obj)
	}
	return idx
}

func (idx *index) toSpace(v geom.Vec) (float64, float64) {
	return (v.X - idx.origin.X) * indexScale, (v.Y - idx.origin.Y) * indexScale
}

// cellRange converts a span in index units to cell indices clamped to the grid.
func (idx *index) cellRange(lo, hi float64, n int) (int, int) {
	a := math.Max(math.Floor(lo/idx.cell), 0)
	b := math.Min(math.Floor(hi/idx.cell), float64(n-1))
	return int(a), int(b)
}

// candidates returns every box registered in a cell overlapping r, each once.
func (idx *index) candidates(r geom.Rect) map[*Box]struct{} {
	out := map[*Box]struct{}{}
	if idx.linear != nil {
		for _, b := range idx.linear {
			out[b] = struct{}{}
		}
		return out
	}
	if idx.space == nil || !finite(r) {
		return out
	}
	x0, y0 := idx.toSpace(geom.Vec{X: r.X, Y: r.Y})
	x1, y1 := idx.toSpace(r.Max())
	cx0, cx1 := idx.cellRange(x0, x1, idx.cols)
	cy0, cy1 := idx.cellRange(y0, y1, idx.rows)
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := idx.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				if b, ok := obj.Data.(*Box); ok {
					out[b] = struct{}{}
				}
			}
		}
	}
	return out
}

// cellCount reports how many grid cells the index allocated.
func (idx *index) cellCount() int {
	return idx.cols * idx.rows
}
