package layout

import (
	"path/filepath"
	"testing"
)

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		Engine: EngineForce,
		State:  StateConverged.String(),
		Positions: Positions{
			"root":  {X: 0, Y: 0},
			"child": {X: 12.5, Y: -3, Pinned: true},
		},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}

	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if back.Engine != EngineForce {
		t.Errorf("engine = %q, want force", back.Engine)
	}
	if p := back.Positions["child"]; p.X != 12.5 || p.Y != -3 || !p.Pinned {
		t.Errorf("child position = %+v", p)
	}
}

func TestUnmarshalLayoutDefaultsEngine(t *testing.T) {
	l, err := UnmarshalLayout([]byte(`{"positions": {}}`))
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if l.Engine != DefaultEngine {
		t.Errorf("engine = %q, want %q", l.Engine, DefaultEngine)
	}

	if _, err := UnmarshalLayout([]byte(`not json`)); err == nil {
		t.Error("UnmarshalLayout(garbage) succeeded")
	}
}

func TestValidateEngine(t *testing.T) {
	if err := ValidateEngine(EngineForce); err != nil {
		t.Errorf("ValidateEngine(force) = %v", err)
	}
	if err := ValidateEngine("spiral"); err == nil {
		t.Error("ValidateEngine(spiral) succeeded")
	}
}
