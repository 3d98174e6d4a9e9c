// Package rollover keeps the current month's billing in existence: a
// recurring check (plus an on-demand admin trigger) that generates billing
// rows for every unit once per calendar month and rolls the maintenance
// fund's closing balance forward.
package rollover

import (
	"errors"
	"log"
	"sync"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/maintenance"
	"github.com/SocietyHub/SH-Backend/internal/period"
)

// State is the outcome of the latest tick for a month.
type State string

const (
	StateUnchecked State = "unchecked"
	StateExists    State = "checked-exists"
	StateGenerated State = "checked-generated"
)

// Runner performs rollover ticks. Ticks are safe to overlap: month
// generation runs under an advisory lock with natural-key upserts, and
// carry-forward is an idempotent upsert.
type Runner struct {
	WaterMin float64
	WaterMax float64

	mu        sync.Mutex
	lastMonth string
	lastState State
}

// Status reports the last checked month and its state.
func (r *Runner) Status() (string, State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastMonth == "" {
		return "", StateUnchecked
	}
	return r.lastMonth, r.lastState
}

func (r *Runner) setState(month string, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastMonth = month
	r.lastState = s
}

// Tick checks the current local month and generates it if absent.
func (r *Runner) Tick() (State, error) {
	current := period.Current()

	err := billing.GenerateMonth(current, r.WaterMin, r.WaterMax)
	if errors.Is(err, billing.ErrMonthExists) {
		r.setState(current, StateExists)
		return StateExists, nil
	}
	if err != nil {
		return StateUnchecked, err
	}

	log.Printf("[rollover] generated billing for %s", current)

	// Roll the fund balance forward from the month that just ended. A
	// missing ledger row simply means the fund was never touched last
	// month; nothing to carry.
	previous, err := period.Previous(current)
	if err != nil {
		return StateUnchecked, err
	}
	if _, err := maintenance.CarryForward(previous); err != nil {
		if errors.Is(err, maintenance.ErrBalanceNotFound) {
			log.Printf("[rollover] no fund balance for %s, skipping carry-forward", previous)
		} else {
			// Billing rows exist; the fund rollover can be re-run via
			// the carry-forward endpoint.
			log.Printf("[rollover] carry-forward from %s failed: %v", previous, err)
		}
	}

	r.setState(current, StateGenerated)
	return StateGenerated, nil
}
