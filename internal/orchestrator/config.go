package orchestrator

import "time"

// Defaults for coordinator and engine runs.
const (
	DefaultCoordinatorTimeout = 20 * time.Second
	DefaultEngineTimeout      = 30 * time.Second
	DefaultRetries            = 1
	DefaultRetryBackoff       = 500 * time.Millisecond

	// memoryTurns is how many stored turns feed the engine prompt when
	// retrieval returns nothing.
	memoryTurns = 10
)
