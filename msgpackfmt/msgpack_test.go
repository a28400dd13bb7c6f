package msgpackfmt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRoundTrip(t *testing.T) {
	n := ir.FromKeyVals([]ir.KeyVal{
		{Key: "z", Val: ir.FromString("last first")},
		{Key: "a", Val: ir.FromInt(-70000)},
		{Key: "f", Val: ir.FromFloat(0.25)},
		{Key: "list", Val: ir.FromSlice([]*ir.Node{ir.FromBool(false), ir.Null(), ir.NewObject()})},
		{Key: "5", Val: ir.FromInt(1 << 40)},
	})
	d, err := Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	back, err := Decode(d)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if !ir.Equal(n, back) {
		t.Errorf("round trip mismatch (-want +got):\n%s", cmp.Diff(n.ToAny(), back.ToAny()))
	}
	if diff := cmp.Diff(n.Fields, back.Fields); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
}

func TestDecodeForeign(t *testing.T) {
	d, err := msgpack.Marshal(map[string]any{"n": uint8(7), "b": []byte("raw")})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(d)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if v := ir.Get(got, "n"); v == nil || !v.IsInt() || *v.Int64 != 7 {
		t.Errorf("n = %v", got.ToAny())
	}
	if v := ir.Get(got, "b"); v == nil || v.String != "raw" {
		t.Errorf("b = %v", got.ToAny())
	}
}

func TestDecodeMalformed(t *testing.T) {
	d, err := Marshal(ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)}))
	if err != nil {
		t.Fatal(err)
	}
	for name, in := range map[string][]byte{
		"truncated": d[:len(d)-1],
		"trailing":  append(d, 0x01),
		"empty":     nil,
	} {
		_, err := Decode(in)
		if !errors.Is(err, format.ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}
