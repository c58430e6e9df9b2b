package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_ValidPath(t *testing.T) {
	states := map[string]TaskState{"a": StatePending}

	require.NoError(t, Transition(states, "a", StatePending, StatePrereqCheck))
	require.NoError(t, Transition(states, "a", StatePrereqCheck, StateInputWait))
	require.NoError(t, Transition(states, "a", StateInputWait, StateSubstituting))
	require.NoError(t, Transition(states, "a", StateSubstituting, StateExecuting))
	require.NoError(t, Transition(states, "a", StateExecuting, StateCompleted))
	assert.Equal(t, StateCompleted, states["a"])
}

func TestTransition_RejectsWrongPriorState(t *testing.T) {
	states := map[string]TaskState{"a": StatePending}
	err := Transition(states, "a", StateExecuting, StateCompleted)
	require.Error(t, err)
	assert.Equal(t, StatePending, states["a"])
}

func TestTransition_RejectsDisallowed(t *testing.T) {
	states := map[string]TaskState{"a": StateCompleted}
	assert.Error(t, Transition(states, "a", StateCompleted, StateExecuting))

	states["b"] = StateExecuting
	assert.Error(t, Transition(states, "b", StateExecuting, StateSkipped))
}

func TestTransition_UnknownTask(t *testing.T) {
	assert.Error(t, Transition(map[string]TaskState{}, "ghost", StatePending, StateExecuting))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateCompleted))
	assert.True(t, IsTerminal(StateFailed))
	assert.True(t, IsTerminal(StateSkipped))
	assert.False(t, IsTerminal(StatePending))
	assert.False(t, IsTerminal(StateExecuting))
}
