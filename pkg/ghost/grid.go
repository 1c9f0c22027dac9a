package ghost

import(
	"image"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
)

// GridSize is the fixed number of patch cells along each axis.
const GridSize = 40

// ErrDegenerateGrid: the image is smaller than the grid in some axis,
// so the per-cell pixel extent would be zero.
var ErrDegenerateGrid = errors.New("grid too fine for image")

// A PatchGrid partitions the frame into GridSize x GridSize cells of
// floor(w/GridSize) x floor(h/GridSize) pixels. Remainder pixels at
// the right/bottom border belong to no cell and are never scored.
// flags[i][j] is indexed by (x-cell, y-cell) and holds the OR across
// every exposure comparison of one detection run.
type PatchGrid struct {
	cellW, cellH int
	flags        [][]bool
}

func newPatchGrid(width, height int) (*PatchGrid, error) {
	cellW := width / GridSize
	cellH := height / GridSize
	if cellW == 0 || cellH == 0 {
		return nil, errors.Wrapf(ErrDegenerateGrid, "%dx%d image, %d cells per axis",
			width, height, GridSize)
	}

	flags := make([][]bool, GridSize)
	for i := range flags {
		flags[i] = make([]bool, GridSize)
	}
	return &PatchGrid{cellW: cellW, cellH: cellH, flags: flags}, nil
}

func (g *PatchGrid)CellDx() int { return g.cellW }
func (g *PatchGrid)CellDy() int { return g.cellH }

func (g *PatchGrid)Flagged(i, j int) bool { return g.flags[i][j] }
func (g *PatchGrid)flag(i, j int)         { g.flags[i][j] = true }

// CellBounds is the pixel rectangle of cell (i,j).
func (g *PatchGrid)CellBounds(i, j int) image.Rectangle {
	return image.Rect(i*g.cellW, j*g.cellH, (i+1)*g.cellW, (j+1)*g.cellH)
}

func (g *PatchGrid)FlagCount() int {
	count := 0
	for i:=0; i<GridSize; i++ {
		for j:=0; j<GridSize; j++ {
			if g.flags[i][j] { count++ }
		}
	}
	return count
}

func (g *PatchGrid)FlagFraction() float64 {
	return float64(g.FlagCount()) / float64(GridSize*GridSize)
}

// Overlay renders the frame's lightness in grayscale with the flagged
// cells tinted, for eyeballing what the detector decided.
func (g *PatchGrid)Overlay(p hcolor.Pixels) image.Image {
	width, height := p.Dx(), p.Dy()

	bg := image.NewRGBA(image.Rect(0, 0, width, height))
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			_, _, l := hcolor.RGBToHSL(p.RGBAt(x, y))
			gray := uint8(l / 257.0)
			i := bg.PixOffset(x, y)
			bg.Pix[i+0], bg.Pix[i+1], bg.Pix[i+2], bg.Pix[i+3] = gray, gray, gray, 0xFF
		}
	}

	dc := gg.NewContextForImage(bg)
	tint := colorful.Hsv(0, 0.9, 1.0) // red
	dc.SetRGBA(tint.R, tint.G, tint.B, 0.35)

	for i:=0; i<GridSize; i++ {
		for j:=0; j<GridSize; j++ {
			if !g.flags[i][j] { continue }
			b := g.CellBounds(i, j)
			dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
			dc.Fill()
		}
	}

	return dc.Image()
}
