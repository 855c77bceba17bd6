package preset

import "testing"

func TestGetKnown(t *testing.T) {
	p := Get("corners-strict")
	if p.Name != "corners-strict" {
		t.Errorf("Name: got %q, want %q", p.Name, "corners-strict")
	}
	if p.Window%2 != 1 {
		t.Errorf("Window: got %d, want odd", p.Window)
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("Name: got %q, want requested name kept", p.Name)
	}
	def := Get(DefaultName)
	if p.HarrisK != def.HarrisK || p.Kappa != def.Kappa || p.Iterations != def.Iterations {
		t.Errorf("unknown preset should carry default parameters, got %+v", p)
	}
	if Known("nope") {
		t.Error("Known(nope) = true")
	}
}

func TestPresetsAreUsable(t *testing.T) {
	for _, name := range Names() {
		p := Get(name)
		if p.Kappa <= 0 {
			t.Errorf("%s: kappa %v", name, p.Kappa)
		}
		if p.Scheme != 4 && p.Scheme != 8 {
			t.Errorf("%s: scheme %d", name, p.Scheme)
		}
		if p.Window < 1 || p.Window%2 == 0 {
			t.Errorf("%s: window %d", name, p.Window)
		}
	}
	if got := len(Names()); got != 5 {
		t.Errorf("Names: got %d presets, want 5", got)
	}
}
