package convert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/msgpackfmt"
	"github.com/signadot/xconv/normalize"
	"github.com/signadot/xconv/xmlconv"
	"github.com/signadot/xconv/yamlfmt"
)

type armors struct {
	Armor []string `json:"armor"`
}

type unit struct {
	Name   string `json:"name"`
	Life   int    `json:"life"`
	Armors armors `json:"armors"`
}

var barbarian = unit{Name: "Barbarian", Life: 50, Armors: armors{Armor: []string{"Helmet", "Shield"}}}

type profile struct{}

func (profile) ToJSON() (string, error) { return `{ "z": 1, "a": 2 }`, nil }

type feed struct{}

func (feed) ToXML(root string) (string, error) {
	return fmt.Sprintf(`<%s><entry>1</entry></%s>`, root, root), nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   any
		want format.Kind
	}{
		{`{"a":1}`, format.JSON},
		{`<a>1</a>`, format.XML},
		{`a:1:{s:1:"a";i:1;}`, format.Serialized},
		{map[string]any{"a": 1}, format.Mapping},
		{barbarian, format.Object},
		{12, format.Integer},
	}
	for _, tt := range tests {
		if !Is(tt.in, tt.want) {
			t.Errorf("Is(%v, %s) is false, Classify() = %s", tt.in, tt.want, Classify(tt.in))
		}
	}
	if !IsJSON(`[1]`) || !IsXML(`<a/>`) || !IsSerialized(`N;`) || !IsMapping([]int{}) || !IsObject(barbarian) || IsResource(1) {
		t.Error("predicates disagree with Classify")
	}
}

func TestMacro(t *testing.T) {
	if !Is(true, format.Boolean) {
		t.Fatal("builtin classification of true")
	}
	err := Macro("isTriple", func(v any) bool {
		s, ok := v.([]int)
		return ok && len(s) == 3
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := Classify([]int{1, 2, 3}); got != "triple" {
		t.Errorf("Classify() = %s, want triple", got)
	}
	if got := Classify([]int{1, 2}); got != format.Mapping {
		t.Errorf("Classify() = %s, want mapping", got)
	}
	// custom kinds do not change conversion
	got, err := ToJSON([]int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != `[1,2,3]` {
		t.Errorf("ToJSON() = %s", got)
	}
}

func TestUnitScenario(t *testing.T) {
	got, err := ToXML(barbarian, "unit")
	if err != nil {
		t.Fatal(err)
	}
	want := xmlconv.Header + `<unit><name>Barbarian</name><life>50</life><armors><armor>Helmet</armor><armor>Shield</armor></armors></unit>`
	if got != want {
		t.Fatalf("ToXML() = %s, want %s", got, want)
	}
	back, err := XMLToStructure(got, xmlconv.None)
	if err != nil {
		t.Fatal(err)
	}
	orig, err := ToStructure(barbarian, true)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(orig, back) {
		t.Errorf("decoded %s, want %s", mustJSON(t, back), mustJSON(t, orig))
	}
}

func mustJSON(t *testing.T, n *ir.Node) string {
	t.Helper()
	d, err := jsonfmt.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

func structures() []*ir.Node {
	return []*ir.Node{
		ir.FromKeyVals([]ir.KeyVal{
			{Key: "name", Val: ir.FromString("Barbarian")},
			{Key: "life", Val: ir.FromInt(50)},
			{Key: "speed", Val: ir.FromFloat(1.5)},
			{Key: "alive", Val: ir.FromBool(true)},
			{Key: "weapon", Val: ir.Null()},
			{Key: "armors", Val: ir.FromSlice([]*ir.Node{ir.FromString("Helmet"), ir.FromString("Shield")})},
		}),
		ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.NewArray(), ir.FromString("x \"quoted\" ü")}),
		ir.FromKeyVals([]ir.KeyVal{
			{Key: "2", Val: ir.FromString("sparse")},
			{Key: "0", Val: ir.FromString("first")},
			{Key: "nested", Val: ir.FromKeyVals([]ir.KeyVal{{Key: "deep", Val: ir.FromFloat(2)}})},
		}),
		ir.NewObject(),
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for i, s := range structures() {
		text, err := ToJSON(s)
		if err != nil {
			t.Fatalf("%d: ToJSON() failed: %v", i, err)
		}
		back, err := ToStructure(text, true)
		if err != nil {
			t.Fatalf("%d: ToStructure(%s) failed: %v", i, text, err)
		}
		if !ir.Equal(s, back) {
			t.Errorf("%d: round trip through %s gave %s", i, text, mustJSON(t, back))
		}
	}
}

func TestSerializedRoundTrip(t *testing.T) {
	for i, s := range structures() {
		text, err := ToSerialized(s)
		if err != nil {
			t.Fatalf("%d: ToSerialized() failed: %v", i, err)
		}
		back, err := ToStructure(text, true)
		if err != nil {
			t.Fatalf("%d: ToStructure(%s) failed: %v", i, text, err)
		}
		if !ir.Equal(s, back) {
			t.Errorf("%d: round trip through %s gave %s", i, text, mustJSON(t, back))
		}
	}
}

func TestSerializedEmptyMapping(t *testing.T) {
	v := map[string]any{"a": map[string]any{}, "b": 1}
	text, err := ToSerialized(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `a:2:{s:1:"a";O:8:"stdClass":0:{}s:1:"b";i:1;}`
	if text != want {
		t.Errorf("ToSerialized() = %s, want %s", text, want)
	}
	back, err := ToStructure(text, true)
	if err != nil {
		t.Fatal(err)
	}
	orig, err := ToStructure(v, true)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(orig, back) {
		t.Errorf("round trip gave %s", mustJSON(t, back))
	}
}

func TestYAMLAndMsgpackRoundTrip(t *testing.T) {
	for i, s := range structures() {
		y, err := ToYAML(s)
		if err != nil {
			t.Fatalf("%d: ToYAML() failed: %v", i, err)
		}
		back, err := ToStructureWith(y, normalize.As(format.YAML))
		if err != nil {
			t.Fatalf("%d: yaml %q: %v", i, y, err)
		}
		if !ir.Equal(s, back) {
			t.Errorf("%d: yaml round trip through %q gave %s", i, y, mustJSON(t, back))
		}

		m, err := ToMsgpack(s)
		if err != nil {
			t.Fatalf("%d: ToMsgpack() failed: %v", i, err)
		}
		back, err = msgpackfmt.Decode(m)
		if err != nil {
			t.Fatal(err)
		}
		if !ir.Equal(s, back) {
			t.Errorf("%d: msgpack round trip gave %s", i, mustJSON(t, back))
		}
	}
}

func TestToJSON(t *testing.T) {
	got, err := ToJSON(profile{})
	if err != nil {
		t.Fatal(err)
	}
	if got != `{ "z": 1, "a": 2 }` {
		t.Errorf("JSONer text was not used as is: %s", got)
	}
	got, err = ToJSON(profile{}, jsonfmt.Indent("", " "))
	if err != nil {
		t.Fatal(err)
	}
	if want := "{\n \"z\": 1,\n \"a\": 2\n}"; got != want {
		t.Errorf("ToJSON() = %q, want %q", got, want)
	}
	got, err = ToJSON("hello")
	if err != nil {
		t.Fatal(err)
	}
	if got != `["hello"]` {
		t.Errorf("scalars are wrapped: got %s", got)
	}
}

func TestToXML(t *testing.T) {
	got, err := ToXML(feed{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != `<root><entry>1</entry></root>` {
		t.Errorf("XMLer text was not used: %s", got)
	}
	got, err = ToXML(map[string]any{"feed": feed{}}, "doc", xmlconv.WithHeader(false))
	if err != nil {
		t.Fatal(err)
	}
	if want := `<doc><feed><entry>1</entry></feed></doc>`; got != want {
		t.Errorf("ToXML() = %s, want %s", got, want)
	}

	got, err = ToXML(map[string]any{"value": 5, "unit": "kg"}, "m", xmlconv.WithHeader(false))
	if err != nil {
		t.Fatal(err)
	}
	if want := `<m><unit>kg</unit><value>5</value></m>`; got != want {
		t.Errorf("ToXML() = %s, want %s", got, want)
	}
	back, err := XMLToStructure(got, xmlconv.None)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"unit": "kg", "value": int64(5)}, back.ToAny()); diff != "" {
		t.Errorf("XMLToStructure() mismatch (-want +got):\n%s", diff)
	}

	_, err = ToXML([]int{1, 2}, "")
	if !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("top level sequence: got %v", err)
	}
	_, err = ToXML(map[string]any{"a b": 1}, "")
	var nameErr *format.AmbiguousXMLNameError
	if !errors.As(err, &nameErr) {
		t.Errorf("invalid tag: got %v", err)
	}
}

func TestXMLToStructure(t *testing.T) {
	doc := `<units><unit id="1">Knight</unit><unit id="2">Archer</unit></units>`
	tests := []struct {
		policy xmlconv.Policy
		want   string
	}{
		{xmlconv.None, `{"unit":["Knight","Archer"]}`},
		{xmlconv.Merge, `{"unit":[{"value":"Knight","id":1},{"value":"Archer","id":2}]}`},
		{xmlconv.Group, `{"unit":[{"value":"Knight","attributes":{"id":1}},{"value":"Archer","attributes":{"id":2}}]}`},
		{xmlconv.Attribs, `{"unit":[{"id":1},{"id":2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			n, err := XMLToStructure(doc, tt.policy)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, mustJSON(t, n)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
	if _, err := XMLToStructure(`<a><b></a>`, xmlconv.None); !errors.Is(err, format.ErrMalformed) {
		t.Errorf("malformed: got %v", err)
	}
}

func TestMapAndSlice(t *testing.T) {
	tests := []struct {
		name       string
		in         any
		wantFields []string
		wantSlice  string
	}{
		{"sequence", []string{"a", "b"}, []string{"0", "1"}, `["a","b"]`},
		{"scalar", 7, []string{"0"}, `[7]`},
		{"nil", nil, nil, `[]`},
		{"object", barbarian, []string{"name", "life", "armors"}, `["Barbarian",50,{"armor":["Helmet","Shield"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ToMap(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if m.Type != ir.ObjectType {
				t.Errorf("ToMap() type = %s", m.Type)
			}
			if diff := cmp.Diff(tt.wantFields, m.Fields, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ToMap() fields (-want +got):\n%s", diff)
			}
			s, err := ToSlice(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantSlice, mustJSON(t, s)); diff != "" {
				t.Errorf("ToSlice() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	eq, err := Equal(barbarian, `{"name":"Barbarian","life":50,"armors":{"armor":["Helmet","Shield"]}}`)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Error("struct and its JSON text should be equal")
	}
	eq, err = Equal(`{"a":1,"b":2}`, `{"b":2,"a":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Error("key order is significant")
	}
}

func TestYAMLText(t *testing.T) {
	got, err := ToYAML(barbarian)
	if err != nil {
		t.Fatal(err)
	}
	back, err := yamlfmt.Decode([]byte(got))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"name", "life", "armors"}, back.Fields); diff != "" {
		t.Errorf("yaml key order (-want +got):\n%s", diff)
	}
}
