package graph

import "testing"

func TestPathString(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"Root", Path{}, "$"},
		{"Key", Path{}.Key("users", 0), "$.users"},
		{"Index", Path{}.Index(3), "$[3]"},
		{"Mixed", Path{}.Key("users", 0).Index(0).Key("name", 0), "$.users[0].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathHash(t *testing.T) {
	tests := []struct {
		name string
		a, b Path
		same bool
	}{
		{"Identical", Path{}.Key("a", 0), Path{}.Key("a", 0), true},
		{"DifferentKey", Path{}.Key("a", 0), Path{}.Key("b", 0), false},
		{"KeyVsIndex", Path{}.Key("0", 0), Path{}.Index(0), false},
		{"Ordinal", Path{}.Key("a", 0), Path{}.Key("a", 1), false},
		{"DepthMatters", Path{}.Key("a", 0), Path{}.Key("a", 0).Key("a", 0), false},
		{"RootStable", Path{}, Path{}, true},
		// Step boundaries must not smear: ["ab"] vs ["a","b"].
		{"NoConcatCollision", Path{}.Key("ab", 0), Path{}.Key("a", 0).Key("b", 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha, hb := tt.a.Hash(), tt.b.Hash()
			if (ha == hb) != tt.same {
				t.Errorf("Hash(%s) == Hash(%s) is %v, want %v", tt.a, tt.b, ha == hb, tt.same)
			}
		})
	}
}

func TestPathAppendNoAliasing(t *testing.T) {
	base := Path{}.Key("a", 0)
	p1 := base.Key("b", 0)
	p2 := base.Key("c", 0)

	if p1[1].Key != "b" || p2[1].Key != "c" {
		t.Errorf("sibling paths alias: %s vs %s", p1, p2)
	}
}

func TestStepLabel(t *testing.T) {
	if got := (Step{Key: "name"}).Label(); got != "name" {
		t.Errorf("key label = %q", got)
	}
	if got := (Step{Index: 7, Array: true}).Label(); got != "7" {
		t.Errorf("index label = %q", got)
	}
}
