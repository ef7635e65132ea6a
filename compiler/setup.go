package compiler

import (
	"go.uber.org/multierr"

	"github.com/wippyai/ecs-bridge/ecs"
)

// Install registers every declared component with the app's world, adds a
// state machine and its watcher per state enumeration, and installs one
// empty PrefabResource per prefab enumeration.
func (c *Compiled) Install(app *ecs.App) error {
	w := app.World()
	var errs error

	for _, cat := range []*Category{&c.Builtin, &c.Custom, &c.States} {
		for _, m := range cat.Members {
			_, err := w.Register(m.Name, int(m.Size))
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return errs
	}

	for _, s := range c.Model.States {
		if _, err := w.AddState(s.Name, s.Variants); err != nil {
			return err
		}
		app.AddSystem(ecs.PostUpdate, "state_watcher_"+s.Name, c.StateWatcher(s.Name))
	}

	for i := range c.Prefabs {
		w.SetNamed(PrefabResourceName(c.Prefabs[i].Name), newPrefabResource(&c.Prefabs[i]))
	}
	return nil
}
