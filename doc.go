// Package figura is an interactive scene-graph transform and movement
// engine.
//
// A [Figure] owns a tree of nodes. Each [Node] carries a composable
// [Transform], an optional pulse overlay and a set of borders used for
// touch hit-testing. Nodes can be dragged, released with velocity and left
// to decelerate and bounce inside bounds. Points convert freely between
// five coordinate spaces: draw, local, figure, GL and pixel.
//
// Figura does not draw. A host feeds time and pointer events and reads back
// draw matrices and borders; the ebitenhost package is such a host built
// on [Ebitengine].
//
// # Quick start
//
//	scene := figura.MustScene(figura.SceneOptions{})
//	fig := figura.NewFigure(figura.FigureOptions{
//		Scene:    scene,
//		Viewport: figura.Viewport{Width: 640, Height: 640},
//	})
//
//	square := fig.NewPrimitive("square", figura.Rectangle(0.5, 0.5))
//	square.SetMovable(figura.MoveOptions{
//		Bounds: figura.NewRectBounds(-1, -1, 2, 2),
//	})
//	fig.Add(square)
//
//	// every frame:
//	fig.Advance(figura.FrameContext{Now: seconds})
//	m := square.DrawMatrix()
//
// # Transforms
//
// A [Transform] is an ordered chain of translate, rotate, scale and matrix
// steps. The first step is applied to a point first:
//
//	t := figura.NewTransform("").Scale(2, 2, 1).Rotate(math.Pi/2).Translate(1, 0, 0)
//
// scales, then rotates, then translates. Nodes start with s(1) r(0) t(0).
//
// # Frames
//
// [Figure.Advance] is the only place time passes. It processes injected
// input, steps free movement, pulses, scenario tweens and animations, and
// recomposes every draw matrix top-down. Completion callbacks run
// synchronously inside Advance. Pausing and time scaling change the figure
// clock, not the host clock.
//
// # Animations
//
// [Node.Animate] chains steps into a sequence:
//
//	square.Animate("intro").
//		DissolveIn(0.5, nil).
//		Delay(0.2).
//		ToScenario("home", 1, ease.OutQuad).
//		Start()
//
// # Callbacks
//
// Completion notifications are [Callback] values. Named callbacks are
// registered once with the figure's [CallbackRegistry] and resolved when a
// node is configured:
//
//	done := fig.Callbacks().Register("settled", func(how figura.StopHow) { ... })
//	square.Pulse(figura.PulseOptions{Done: done})
//
// [Ebitengine]: https://ebitengine.org
package figura
