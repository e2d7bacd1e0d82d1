package statetests

import "testing"

import "github.com/sirgallo/flow/pkg/state"


func SetupMockState(t *testing.T) *state.State {
	engineState, stateErr := state.NewState(t.TempDir())
	if stateErr != nil { t.Fatalf("unable to create or open engine state: %s", stateErr.Error()) }

	t.Cleanup(func() { engineState.Close() })

	return engineState
}
