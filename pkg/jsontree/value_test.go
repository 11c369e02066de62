package jsontree

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		wantKind  Kind
		wantColor string
	}{
		{"Object", Object{}, KindObject, "#2B6CB0"},
		{"Array", Array{}, KindArray, "#4C51BF"},
		{"String", String("hi"), KindString, "#48BB78"},
		{"Number", Number("3.14"), KindNumber, "#ED8936"},
		{"BoolTrue", Bool(true), KindBool, "#9F7AEA"},
		{"BoolFalse", Bool(false), KindBool, "#9F7AEA"},
		{"Null", Null{}, KindNull, "#718096"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, color := Classify(tt.value)
			if kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
			if color != tt.wantColor {
				t.Errorf("color = %q, want %q", color, tt.wantColor)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindObject, "object"},
		{KindArray, "array"},
		{KindString, "string"},
		{KindNumber, "number"},
		{KindBool, "boolean"},
		{KindNull, "null"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"Object", Object{{Key: "a", Value: Null{}}}, "{}"},
		{"Array", Array{Null{}}, "[]"},
		{"String", String("hello"), "hello"},
		{"Number", Number("1"), "1"},
		{"NumberFloat", Number("2.50"), "2.50"},
		{"True", Bool(true), "true"},
		{"False", Bool(false), "false"},
		{"Null", Null{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Literal(tt.value); got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectSetGet(t *testing.T) {
	obj := Object{}
	obj.Set("a", Number("1"))
	obj.Set("b", Number("2"))
	obj.Set("a", Number("3")) // replace keeps position

	if got := obj.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", got)
	}
	v, ok := obj.Get("a")
	if !ok || v.(Number) != Number("3") {
		t.Errorf("Get(a) = %v, %v, want 3, true", v, ok)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("Get(missing) reported present")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"Nil", nil, nil, true},
		{"NilVsValue", nil, Null{}, false},
		{"Nulls", Null{}, Null{}, true},
		{"KindMismatch", String("1"), Number("1"), false},
		{"NumberLiteral", Number("1"), Number("1.0"), false},
		{
			"KeyOrderMatters",
			Object{{Key: "a", Value: Null{}}, {Key: "b", Value: Null{}}},
			Object{{Key: "b", Value: Null{}}, {Key: "a", Value: Null{}}},
			false,
		},
		{
			"NestedEqual",
			Object{{Key: "a", Value: Array{Bool(true), Null{}}}},
			Object{{Key: "a", Value: Array{Bool(true), Null{}}}},
			true,
		},
		{
			"ArrayLength",
			Array{Null{}},
			Array{Null{}, Null{}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"Short", "abc", 50, "abc"},
		{"Exact", "abcde", 5, "abcde"},
		{"Cut", "abcdef", 5, "abcde…"},
		{"Unicode", "héllo wörld", 5, "héllo…"},
		{"NoLimit", "abcdef", 0, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
