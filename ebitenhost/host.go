// Package ebitenhost runs a figura.Figure inside an Ebitengine window. It
// feeds the figure the frame clock and pointer input, and strokes node
// borders so a figure can be seen and dragged without a renderer.
package ebitenhost

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/figura"
)

// RunConfig configures Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// ClearColor fills the screen before borders are drawn.
	ClearColor figura.Color
	// ShowFPS draws an FPS and movement overlay in the top-left corner.
	ShowFPS bool
	// HideBorders disables border stroking.
	HideBorders bool
	// StrokeWidth is the border line width in pixels. 0 means 1.
	StrokeWidth float32
}

// Game adapts a Figure to ebiten.Game.
type Game struct {
	fig   *figura.Figure
	cfg   RunConfig
	start time.Time
	now   func() float64
	poll  func() pointer

	pressed bool
	touchID ebiten.TouchID
	touch   bool
	lastErr error
}

// NewGame returns a Game driving fig with the wall clock.
func NewGame(fig *figura.Figure, cfg RunConfig) *Game {
	g := &Game{fig: fig, cfg: cfg, start: time.Now()}
	g.now = func() float64 { return time.Since(g.start).Seconds() }
	g.poll = g.readPointer
	if cfg.Width > 0 && cfg.Height > 0 {
		fig.SetViewport(float64(cfg.Width), float64(cfg.Height))
	}
	return g
}

// Figure returns the figure the game drives.
func (g *Game) Figure() *figura.Figure {
	return g.fig
}

// Err returns the last error reported by the figure, if any.
func (g *Game) Err() error {
	return g.lastErr
}

// Update reads pointer input and advances the figure.
func (g *Game) Update() error {
	if err := g.handlePointer(g.poll()); err != nil {
		g.report(err)
	}
	if err := g.fig.Advance(figura.FrameContext{Now: g.now()}); err != nil {
		g.report(err)
	}
	return nil
}

func (g *Game) report(err error) {
	if g.lastErr == nil || g.lastErr.Error() != err.Error() {
		figura.Logger().Warn("ebitenhost", "err", err)
	}
	g.lastErr = err
}

// Draw clears the screen, strokes borders and draws the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(g.cfg.ClearColor))
	if !g.cfg.HideBorders {
		g.drawBorders(screen)
	}
	if g.cfg.ShowFPS {
		g.drawOverlay(screen)
	}
}

// Layout keeps the figure viewport in step with the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := g.fig.Viewport()
	if vp.Width != float64(outsideWidth) || vp.Height != float64(outsideHeight) {
		g.fig.SetViewport(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives fig until the window is closed.
func Run(fig *figura.Figure, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("ebitenhost: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(NewGame(fig, cfg))
}

func toRGBA(c figura.Color) color.RGBA {
	clamp := func(v float64) uint8 {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	a := clamp(c.A)
	// Premultiply for ebiten.
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: a,
	}
}
