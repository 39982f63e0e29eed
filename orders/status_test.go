package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenFlowAllowsAnyNonEmptyStatus(t *testing.T) {
	flow := &StatusFlow{}

	assert.True(t, flow.CanTransition(StatusPending, "Accepted"))
	assert.True(t, flow.CanTransition("Accepted", "Anything At All"))
	assert.False(t, flow.CanTransition(StatusPending, ""))
}

func TestConfiguredFlowRejectsUnlistedEdges(t *testing.T) {
	flow := &StatusFlow{Edges: map[string][]string{
		StatusPending: {"Accepted", "Cancelled"},
		"Accepted":    {"Completed"},
	}}

	assert.True(t, flow.CanTransition(StatusPending, "Accepted"))
	assert.True(t, flow.CanTransition(StatusPending, "Cancelled"))
	assert.True(t, flow.CanTransition("Accepted", "Completed"))

	assert.False(t, flow.CanTransition(StatusPending, "Completed"))
	assert.False(t, flow.CanTransition("Accepted", StatusPending))
	assert.False(t, flow.CanTransition("Completed", "Accepted"))
	assert.False(t, flow.CanTransition(StatusPending, ""))
}

func TestDefaultFlowFromEnv(t *testing.T) {
	t.Setenv("ORDER_STATUS_FLOW", `{"edges":{"Pending":["Accepted"]}}`)
	flow := DefaultFlow()
	assert.True(t, flow.CanTransition(StatusPending, "Accepted"))
	assert.False(t, flow.CanTransition(StatusPending, "Delivered"))
}

func TestDefaultFlowBadEnvFallsBackOpen(t *testing.T) {
	t.Setenv("ORDER_STATUS_FLOW", `{not json`)
	flow := DefaultFlow()
	assert.True(t, flow.CanTransition(StatusPending, "Whatever"))
}

func TestDefaultFlowUnsetIsOpen(t *testing.T) {
	t.Setenv("ORDER_STATUS_FLOW", "")
	flow := DefaultFlow()
	assert.True(t, flow.CanTransition(StatusPending, "Accepted"))
}
