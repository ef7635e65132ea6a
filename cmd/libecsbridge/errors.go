package main

import "github.com/wippyai/ecs-bridge/errors"

var errNotLoaded = errors.InvalidState("spawn", "unloaded")
