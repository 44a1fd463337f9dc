package nav

import "testing"

func TestModeMachineThreshold(t *testing.T) {
	m, err := newModeMachine()
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig(4)

	steps := []struct {
		occupancy float64
		want      Mode
	}{
		{0.1, ModeSearch},
		{0.5, ModeSearch},
		{0.51, ModeCycle},
		{0.9, ModeCycle},
		{0.5, ModeSearch},
	}
	for i, s := range steps {
		if got := m.Update(s.occupancy, cfg); got != s.want {
			t.Fatalf("step %d: Update(%.2f) = %s, want %s", i, s.occupancy, got, s.want)
		}
	}
	if m.Switches() != 2 {
		t.Errorf("switches = %d, want 2", m.Switches())
	}
}

func TestModeMachineHysteresis(t *testing.T) {
	m, err := newModeMachine()
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig(4)
	cfg.Hysteresis = 0.1

	m.Update(0.6, cfg)
	if got := m.Update(0.45, cfg); got != ModeCycle {
		t.Fatalf("inside the band: %s, want CYCLE", got)
	}
	if got := m.Update(0.3, cfg); got != ModeSearch {
		t.Fatalf("below the band: %s, want SEARCH", got)
	}
}

func TestModeMachineReset(t *testing.T) {
	m, err := newModeMachine()
	if err != nil {
		t.Fatal(err)
	}
	m.Update(0.9, DefaultConfig(4))
	m.Reset()
	if m.Mode() != ModeSearch {
		t.Errorf("after reset mode = %s", m.Mode())
	}
	m.Reset()
	if m.Mode() != ModeSearch {
		t.Errorf("second reset mode = %s", m.Mode())
	}
}
