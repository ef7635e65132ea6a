package bridge

import "github.com/wippyai/ecs-bridge/errors"

func errNotInstalled(component string) error {
	return errors.NotFound(errors.PhaseLoad, "installed component", component)
}
