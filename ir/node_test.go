package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetKeepsPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", FromInt(1))
	obj.Set("b", FromInt(2))
	obj.Set("a", FromInt(3))

	if diff := cmp.Diff([]string{"a", "b"}, obj.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if got := *Get(obj, "a").Int64; got != 3 {
		t.Errorf("a = %d, want 3", got)
	}
	if Get(obj, "missing") != nil {
		t.Error("expected nil for missing field")
	}
}

func TestIsSequential(t *testing.T) {
	tests := []struct {
		name   string
		node   *Node
		seq    bool
		numKey bool
	}{
		{"array", FromSlice([]*Node{FromInt(1)}), true, true},
		{"empty object", NewObject(), true, true},
		{"sequential keys", FromKeyVals([]KeyVal{{"0", Null()}, {"1", Null()}}), true, true},
		{"sparse keys", FromKeyVals([]KeyVal{{"1", Null()}, {"5", Null()}}), false, true},
		{"unordered keys", FromKeyVals([]KeyVal{{"1", Null()}, {"0", Null()}}), false, true},
		{"string keys", FromKeyVals([]KeyVal{{"a", Null()}}), false, false},
		{"padded key", FromKeyVals([]KeyVal{{"01", Null()}}), false, false},
		{"scalar", FromInt(1), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsSequential(); got != tt.seq {
				t.Errorf("IsSequential() = %v, want %v", got, tt.seq)
			}
			if got := tt.node.IsNumericKeyed(); got != tt.numKey {
				t.Errorf("IsNumericKeyed() = %v, want %v", got, tt.numKey)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{"list", FromSlice([]*Node{FromInt(1), FromFloat(1.5)})},
	})
	cl := orig.Clone()
	*cl.Values[0].Values[0].Int64 = 9
	cl.Set("extra", FromBool(true))

	if *orig.Values[0].Values[0].Int64 != 1 {
		t.Error("clone shares number storage with original")
	}
	if len(orig.Fields) != 1 {
		t.Error("clone shares fields with original")
	}
}

func TestToAny(t *testing.T) {
	n := FromKeyVals([]KeyVal{
		{"s", FromString("x")},
		{"i", FromInt(2)},
		{"f", FromFloat(2.5)},
		{"b", FromBool(true)},
		{"n", Null()},
		{"a", FromSlice([]*Node{FromInt(1)})},
	})
	want := map[string]any{
		"s": "x",
		"i": int64(2),
		"f": 2.5,
		"b": true,
		"n": nil,
		"a": []any{int64(1)},
	}
	if diff := cmp.Diff(want, n.ToAny()); diff != "" {
		t.Errorf("ToAny mismatch (-want +got):\n%s", diff)
	}
}

func TestAsObject(t *testing.T) {
	arr := FromSlice([]*Node{FromString("a"), FromString("b")})
	obj := arr.AsObject()
	if diff := cmp.Diff([]string{"0", "1"}, obj.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	p := PathIndex(PathField(PathField("", "a"), "b c"), 2)
	if p != "$.a.'b c'[2]" {
		t.Errorf("got %q", p)
	}
}

func TestTypeText(t *testing.T) {
	for _, ty := range Types() {
		d, err := ty.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Type
		if err := back.UnmarshalText(d); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", d, err)
		}
		if back != ty {
			t.Errorf("%s read back as %s", d, back)
		}
	}
	if got := RecordType.String(); got != "Record" {
		t.Errorf("RecordType.String() = %q", got)
	}
	if got := Type(99).String(); got != "<unknown type>" {
		t.Errorf("Type(99).String() = %q", got)
	}
	var ty Type
	if err := ty.UnmarshalText([]byte("Comment")); err == nil {
		t.Error("expected an error for an unknown type name")
	}
}
