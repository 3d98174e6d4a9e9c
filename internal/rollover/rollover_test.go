package rollover

import "testing"

func TestRunnerStatus(t *testing.T) {
	r := &Runner{}

	month, state := r.Status()
	if month != "" || state != StateUnchecked {
		t.Errorf("fresh runner: Status() = (%q, %q), want (\"\", unchecked)", month, state)
	}

	r.setState("07/2026", StateGenerated)
	month, state = r.Status()
	if month != "07/2026" || state != StateGenerated {
		t.Errorf("Status() = (%q, %q), want (07/2026, checked-generated)", month, state)
	}

	r.setState("08/2026", StateExists)
	month, state = r.Status()
	if month != "08/2026" || state != StateExists {
		t.Errorf("Status() = (%q, %q), want (08/2026, checked-exists)", month, state)
	}
}
