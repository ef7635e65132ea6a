package bridge

import (
	"sync"

	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/schema"
)

// Project is the embedded game: its schema and the systems it adds.
type Project interface {
	Schema() *schema.Model
	// Setup runs once during Init, after the schema's components, states
	// and prefab resources are installed and before the app is finished.
	Setup(app *ecs.App, c *compiler.Compiled) error
}

var (
	projectMu sync.Mutex
	project   Project
)

// SetProject registers the process-wide project used by Load. Native
// builds call it from an init function.
func SetProject(p Project) {
	projectMu.Lock()
	defer projectMu.Unlock()
	project = p
}

func registeredProject() Project {
	projectMu.Lock()
	defer projectMu.Unlock()
	return project
}
