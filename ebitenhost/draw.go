package ebitenhost

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/figura"
)

// drawBorders strokes the draw border of every shown primitive once per
// draw matrix, so pulse copies are visible.
func (g *Game) drawBorders(screen *ebiten.Image) {
	width := g.cfg.StrokeWidth
	if width == 0 {
		width = 1
	}
	g.fig.Walk(func(n *figura.Node) {
		if n.IsCollection() || !n.IsShownInHierarchy() {
			return
		}
		border, err := n.GetBorder(figura.SpaceDraw, figura.BorderDraw, true)
		if err != nil || len(border) == 0 {
			return
		}
		c := toRGBA(figura.Color{R: n.Color.R, G: n.Color.G, B: n.Color.B, A: n.Color.A * n.Opacity})
		for _, m := range n.LastDrawMatrices() {
			for _, poly := range border.Transform(m) {
				g.strokePolygon(screen, poly, width, c)
			}
		}
	})
}

func (g *Game) strokePolygon(screen *ebiten.Image, poly []figura.Point, width float32, c color.Color) {
	if len(poly) < 2 {
		return
	}
	px := make([]figura.Point, 0, len(poly))
	for _, p := range poly {
		q, err := g.fig.FigureToPixel(p)
		if err != nil {
			return
		}
		px = append(px, q)
	}
	for i := range px {
		a, b := px[i], px[(i+1)%len(px)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, c, true)
	}
}

// overlayText returns the FPS and movement summary shown by drawOverlay.
func (g *Game) overlayText(fps float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  t=%.2fs", fps, g.fig.Now())
	if g.fig.IsPaused() {
		b.WriteString(" (paused)")
	}
	if n := g.fig.BeingMoved(); n != nil {
		fmt.Fprintf(&b, "\n%s: %s", n.Path(), n.MovementMode())
	}
	g.fig.Walk(func(n *figura.Node) {
		if n.IsMovingFreely() {
			fmt.Fprintf(&b, "\n%s: v=%s", n.Path(), n.Velocity().Round(2))
		}
	})
	if g.lastErr != nil {
		fmt.Fprintf(&b, "\nerr: %v", g.lastErr)
	}
	return b.String()
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, g.overlayText(ebiten.ActualFPS()))
}
