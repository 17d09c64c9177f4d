package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/phanxgames/tangerine"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// SpriteData selects what an entity draws and where.
type SpriteData struct {
	Handle tangerine.SpriteHandle
	Layer  string
	Hidden bool
}

// VelocityData moves an entity each Move call.
type VelocityData struct {
	Linear  tangerine.Vec2
	Angular tangerine.Radians
}

var (
	// Instance is the entity's placement. New entries start from
	// tangerine.DefaultInstance.
	Instance = donburi.NewComponentType[tangerine.SpriteInstance](tangerine.DefaultInstance())
	// Sprite is the entity's sprite handle and layer.
	Sprite = donburi.NewComponentType[SpriteData]()
	// Velocity is optional linear and angular motion.
	Velocity = donburi.NewComponentType[VelocityData]()
)

// DrawReport summarizes one DrawSystem run.
type DrawReport struct {
	Drawn  int
	Hidden int
	Culled int
	Failed int
}

// DrawReportEventType is published once per DrawSystem run.
var DrawReportEventType = events.NewEventType[DrawReport]()

var (
	drawQuery = donburi.NewQuery(filter.Contains(Instance, Sprite))
	moveQuery = donburi.NewQuery(filter.Contains(Instance, Velocity))
)

// NewSpriteEntity creates an entity drawing h on layer at inst.
func NewSpriteEntity(w donburi.World, h tangerine.SpriteHandle, layer string, inst tangerine.SpriteInstance) donburi.Entity {
	e := w.Create(Instance, Sprite)
	entry := w.Entry(e)
	Instance.SetValue(entry, inst)
	Sprite.SetValue(entry, SpriteData{Handle: h, Layer: layer})
	return e
}

// DrawSystem issues one draw per visible sprite entity, ordered by entity ID
// so frames are reproducible. When cam is non-nil, entities entirely outside
// its view are skipped. Every entity is attempted; failures are joined.
func DrawSystem(w donburi.World, frame *tangerine.FrameBuilder, cam *tangerine.Camera) error {
	var entries []*donburi.Entry
	drawQuery.Each(w, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})
	slices.SortFunc(entries, func(a, b *donburi.Entry) int {
		return cmp.Compare(a.Entity().Id(), b.Entity().Id())
	})

	var report DrawReport
	var errs []error
	for _, entry := range entries {
		sp := Sprite.Get(entry)
		if sp.Hidden {
			report.Hidden++
			continue
		}
		inst := Instance.Get(entry)
		if cam != nil {
			info, ok := frame.Sprites().Lookup(sp.Handle)
			if ok && cam.Culls(&tangerine.DrawInstance{Sprite: sp.Handle, Instance: *inst, Info: info}) {
				report.Culled++
				continue
			}
		}
		if err := frame.Draw(sp.Handle, sp.Layer, *inst); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("ecs: entity %v: %w", entry.Entity(), err))
			continue
		}
		report.Drawn++
	}
	DrawReportEventType.Publish(w, report)
	return errors.Join(errs...)
}

// Move advances every entity with a Velocity by dt seconds.
func Move(w donburi.World, dt float64) {
	moveQuery.Each(w, func(entry *donburi.Entry) {
		v := Velocity.Get(entry)
		inst := Instance.Get(entry)
		inst.Position.X += v.Linear.X * dt
		inst.Position.Y += v.Linear.Y * dt
		inst.Transform.Rotation += tangerine.Radians(float64(v.Angular) * dt)
	})
}
