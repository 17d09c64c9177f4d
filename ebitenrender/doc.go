// Package ebitenrender draws tangerine batches with [Ebitengine].
//
// Each batch becomes one DrawTriangles32 call against the uploaded atlas
// page. [Run] provides a standalone window and game loop for small programs;
// larger games can drive a [Game] from their own ebiten.Game.
//
// Game.InjectKeys, InjectClick, and InjectCursorPath queue synthetic input
// ticks that replace real input until the queue drains, which lets tests and
// scripted demos drive a game without a window.
//
// [Ebitengine]: https://ebitengine.org
package ebitenrender
