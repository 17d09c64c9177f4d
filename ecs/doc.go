// Package ecs feeds tangerine frames from a [Donburi] world.
//
// Entities carrying both an [Instance] and a [Sprite] component are drawn by
// [DrawSystem] in entity-ID order. Each run publishes a [DrawReport] on
// [DrawReportEventType].
//
// Usage:
//
//	world := donburi.NewWorld()
//	ecs.NewSpriteEntity(world, ship, "foreground", tangerine.NewInstance(0, 0))
//	...
//	if err := ecs.DrawSystem(world, renderer.Frame(), renderer.Camera()); err != nil {
//		log.Print(err)
//	}
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
