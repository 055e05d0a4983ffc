package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pointer is one frame of pointer state in pixels.
type pointer struct {
	x, y    float64
	pressed bool
}

// readPointer polls the mouse, or the first active touch when the mouse
// button is up.
func (g *Game) readPointer() pointer {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		return pointer{x: float64(mx), y: float64(my), pressed: true}
	}
	ids := ebiten.AppendTouchIDs(nil)
	if g.touch {
		for _, id := range ids {
			if id == g.touchID {
				tx, ty := ebiten.TouchPosition(id)
				return pointer{x: float64(tx), y: float64(ty), pressed: true}
			}
		}
		g.touch = false
	} else if len(ids) > 0 {
		g.touchID, g.touch = ids[0], true
		tx, ty := ebiten.TouchPosition(ids[0])
		return pointer{x: float64(tx), y: float64(ty), pressed: true}
	}
	mx, my := ebiten.CursorPosition()
	return pointer{x: float64(mx), y: float64(my)}
}

// handlePointer turns pointer state changes into figure touch calls.
func (g *Game) handlePointer(p pointer) error {
	switch {
	case p.pressed && !g.pressed:
		g.pressed = true
		return g.fig.TouchDown(p.x, p.y)
	case p.pressed:
		return g.fig.TouchMove(p.x, p.y)
	case g.pressed:
		g.pressed = false
		err := g.fig.TouchMove(p.x, p.y)
		g.fig.TouchUp()
		return err
	}
	return nil
}
