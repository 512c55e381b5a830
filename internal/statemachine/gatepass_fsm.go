package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/rajputgas/agency-api/internal/models"
)

// GatePassFSM wraps a gate pass with its state machine
type GatePassFSM struct {
	pass *models.GatePass
	fsm  *fsm.FSM
}

// NewGatePassFSM creates a new gate pass state machine
func NewGatePassFSM(pass *models.GatePass) *GatePassFSM {
	gfsm := &GatePassFSM{
		pass: pass,
	}

	gfsm.fsm = fsm.NewFSM(
		pass.Status(),
		fsm.Events{
			// OUT → RETURNED, terminal
			{Name: "return", Src: []string{models.GatePassStatusOut}, Dst: models.GatePassStatusReturned},
		},
		fsm.Callbacks{},
	)

	return gfsm
}

// Return transitions the gate pass to its terminal RETURNED state. Calling
// it on a pass that is already RETURNED is a no-op, not an error, so the
// sweeper and interactive returns can race safely.
func (g *GatePassFSM) Return(ctx context.Context, at time.Time) error {
	if g.pass.IsReturned() {
		return nil
	}

	if err := g.fsm.Event(ctx, "return"); err != nil {
		return fmt.Errorf("failed to return gate pass %s: %w", g.pass.GatePassNumber, err)
	}

	g.pass.TimeIn = &at
	return nil
}

// Current returns the current state
func (g *GatePassFSM) Current() string {
	return g.fsm.Current()
}

// Can checks if a transition is possible
func (g *GatePassFSM) Can(event string) bool {
	return g.fsm.Can(event)
}
