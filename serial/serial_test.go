package serial

import (
	"errors"
	"math"
	"testing"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		want string
	}{
		{"null", ir.Null(), `N;`},
		{"true", ir.FromBool(true), `b:1;`},
		{"false", ir.FromBool(false), `b:0;`},
		{"int", ir.FromInt(-42), `i:-42;`},
		{"float", ir.FromFloat(1.5), `d:1.5;`},
		{"integral float", ir.FromFloat(2), `d:2;`},
		{"big float", ir.FromFloat(1e100), `d:1E+100;`},
		{"inf", ir.FromFloat(math.Inf(-1)), `d:-INF;`},
		{"utf8 string", ir.FromString("héllo"), `s:6:"héllo";`},
		{"array", ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromInt(1)}), `a:2:{i:0;s:1:"a";i:1;i:1;}`},
		{"object", ir.FromKeyVals([]ir.KeyVal{
			{Key: "name", Val: ir.FromString("Barbarian")},
			{Key: "5", Val: ir.FromBool(true)},
			{Key: "05", Val: ir.Null()},
		}), `a:3:{s:4:"name";s:9:"Barbarian";i:5;b:1;s:2:"05";N;}`},
		{"empty object", ir.NewObject(), `O:8:"stdClass":0:{}`},
		{"empty array", ir.NewArray(), `a:0:{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.node)
			if err != nil {
				t.Fatalf("Marshal() failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalRecord(t *testing.T) {
	_, err := Marshal(ir.FromRecord(struct{}{}))
	if !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"string with quotes", `s:5:"a"b;c";`, ir.FromString(`a"b;c`)},
		{"sequential keys", `a:2:{i:0;s:1:"x";i:1;N;}`, ir.FromSlice([]*ir.Node{ir.FromString("x"), ir.Null()})},
		{"sparse keys", `a:1:{i:3;i:7;}`, ir.FromKeyVals([]ir.KeyVal{{Key: "3", Val: ir.FromInt(7)}})},
		{"empty", `a:0:{}`, ir.NewArray()},
		{"empty object", `O:8:"stdClass":0:{}`, ir.NewObject()},
		{"object keeps numeric keys", `O:3:"Foo":1:{i:0;b:1;}`, ir.FromKeyVals([]ir.KeyVal{{Key: "0", Val: ir.FromBool(true)}})},
		{"object", `O:8:"stdClass":2:{s:1:"a";i:1;s:4:"` + "\x00*\x00b" + `";d:0.5;}`,
			ir.FromKeyVals([]ir.KeyVal{
				{Key: "a", Val: ir.FromInt(1)},
				{Key: "b", Val: ir.FromFloat(0.5)},
			})},
		{"custom", `C:3:"Foo":4:{i:9;}`, ir.FromInt(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if !ir.Equal(tt.want, got) {
				t.Errorf("Decode() = %v, want %v", got.ToAny(), tt.want.ToAny())
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{
		``,
		`N`,
		`b:2;`,
		`i:1.5;`,
		`s:10:"short";`,
		`a:2:{i:0;N;}`,
		`a:1:{b:1;N;}`,
		`i:1;i:2;`,
		`r:1;`,
		`{"a":1}`,
		`s:9223372036854775807:"x";`,
		`a:9223372036854775807:{}`,
		`a:200000000:{`,
		`C:1:"X":9223372036854775807:{}`,
		`O:9223372036854775807:"X":0:{}`,
	} {
		_, err := Decode([]byte(in))
		var mErr *format.MalformedInputError
		if !errors.As(err, &mErr) {
			t.Errorf("Decode(%q) = %v, want MalformedInputError", in, err)
			continue
		}
		if mErr.Kind != format.Serialized {
			t.Errorf("Decode(%q) error kind = %s", in, mErr.Kind)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	n := ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString("Barbarian")},
		{Key: "life", Val: ir.FromInt(50)},
		{Key: "speed", Val: ir.FromFloat(0.1)},
		{Key: "armors", Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: "armor", Val: ir.FromSlice([]*ir.Node{ir.FromString("Helmet"), ir.FromString("Shield")})},
		})},
		{Key: "10", Val: ir.FromBool(false)},
		{Key: "weapon", Val: ir.Null()},
		{Key: "bag", Val: ir.NewObject()},
		{Key: "slots", Val: ir.NewArray()},
	})
	d, err := Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	back, err := Decode(d)
	if err != nil {
		t.Fatalf("Decode(%s) failed: %v", d, err)
	}
	if !ir.Equal(n, back) {
		t.Errorf("round trip mismatch:\n%s\n%v", d, back.ToAny())
	}
}

func TestValid(t *testing.T) {
	tests := map[string]bool{
		`a:1:{s:1:"a";i:1;}`: true,
		`N;`:                 true,
		`s:3:"abc";`:         true,
		`s:3:"abcd";`:        false,
		`{"a":1}`:            false,
		`<a>1</a>`:           false,
		`hello`:              false,

		`s:9223372036854775807:"x";`:     false,
		`a:9223372036854775807:{}`:       false,
		`C:1:"X":9223372036854775807:{}`: false,
	}
	for in, want := range tests {
		if got := Valid([]byte(in)); got != want {
			t.Errorf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}
