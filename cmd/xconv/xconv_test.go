package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/detect"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/normalize"
	"github.com/signadot/xconv/xmlconv"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.json", `{"a":1}`)
	ins, err := readInputs(convert.FileLoader, strings.NewReader("<x/>"), []string{p, "-"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 2 || string(ins[0].data) != `{"a":1}` || string(ins[1].data) != "<x/>" {
		t.Fatalf("readInputs() = %v", ins)
	}
	ins, err = readInputs(convert.FileLoader, strings.NewReader("N;"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 || ins[0].name != "-" {
		t.Errorf("stdin default: %v", ins)
	}
	if _, err := readInputs(convert.FileLoader, nil, []string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWriteKinds(t *testing.T) {
	ins := []input{
		{name: "a", data: []byte(`{"a":1}`)},
		{name: "b", data: []byte(`<a>1</a>`)},
		{name: "c", data: []byte(`s:1:"x";`)},
		{name: "d", data: []byte(`plain`)},
	}
	var buf bytes.Buffer
	if err := writeKinds(&buf, ins); err != nil {
		t.Fatal(err)
	}
	want := "a: json\nb: xml\nc: serialized\nd: string\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("writeKinds() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncoder(t *testing.T) {
	in := input{name: "unit.xml", data: []byte(`<unit id="3"><name>Barbarian</name><armor>Helmet</armor><armor>Shield</armor></unit>`)}
	node, err := in.structure("", normalize.XMLPolicy(xmlconv.Merge))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		enc  encoder
		want string
	}{
		{encoder{to: format.JSON}, `{"name":"Barbarian","armor":["Helmet","Shield"],"id":3}` + "\n"},
		{encoder{to: format.Serialized}, `a:3:{s:4:"name";s:9:"Barbarian";s:5:"armor";a:2:{i:0;s:6:"Helmet";i:1;s:6:"Shield";}s:2:"id";i:3;}` + "\n"},
		{encoder{to: format.XML, root: "unit"},
			xmlconv.Header + `<unit><name>Barbarian</name><armor>Helmet</armor><armor>Shield</armor><id>3</id></unit>` + "\n"},
		{encoder{to: format.JSON, indent: 1}, "{\n \"name\": \"Barbarian\",\n \"armor\": [\n  \"Helmet\",\n  \"Shield\"\n ],\n \"id\": 3\n}\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.enc.to), func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.enc.write(&buf, node); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestViaFormat(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString("Knight")},
		{Key: "life", Val: ir.FromFloat(2.5)},
		{Key: "tags", Val: ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromString("b")})},
	})
	for _, k := range format.Targets() {
		t.Run(string(k), func(t *testing.T) {
			back, err := viaFormat(node, k, xmlconv.Merge)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			differs, err := writeDiff(&buf, "x", node, back)
			if err != nil {
				t.Fatal(err)
			}
			if differs {
				t.Errorf("round trip via %s differs:\n%s", k, buf.String())
			}
		})
	}
}

func TestWriteDiff(t *testing.T) {
	a := ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromInt(1)}, {Key: "b", Val: ir.FromBool(true)}})
	b := ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromInt(2)}, {Key: "b", Val: ir.FromBool(true)}})
	var buf bytes.Buffer
	differs, err := writeDiff(&buf, "in", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Fatal("expected a difference")
	}
	want := "--- in\n+++ in (round trip)\n {\n-  \"a\": 1,\n+  \"a\": 2,\n   \"b\": true\n }\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("writeDiff() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "xconv.yaml", `
classifiers:
- name: isEven
  expr: kind == "integer" && value % 2 == 0
- name: Feed
  expr: isXML(value) && text contains "<feed"
`)
	fc, err := loadFileConfig(convert.FileLoader, p)
	if err != nil {
		t.Fatal(err)
	}
	r := detect.NewRegistry()
	if err := fc.register(r); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"isEven", "Feed"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got := r.Classify(4); got != "even" {
		t.Errorf("Classify(4) = %s", got)
	}
	if got := r.Classify("<feed/>"); got != "feed" {
		t.Errorf("Classify(<feed/>) = %s", got)
	}

	bad := writeFile(t, dir, "bad.yaml", "classifiers:\n- name: isBad\n  expr: value +\n")
	fc, err = loadFileConfig(convert.FileLoader, bad)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.register(detect.NewRegistry()); err == nil {
		t.Error("expected a compile error")
	}
	unknown := writeFile(t, dir, "unknown.yaml", "classifier: []\n")
	if _, err := loadFileConfig(convert.FileLoader, unknown); err == nil {
		t.Error("expected an unknown field error")
	}
}

func TestApplyPatch(t *testing.T) {
	in := input{name: "-", data: []byte(`{"name":"Knight","life":3}`)}
	got, err := applyPatch(in, []byte(`[{"op":"replace","path":"/life","value":4}]`), false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Knight", "life": int64(4)}, got.ToAny()); diff != "" {
		t.Errorf("patch mismatch (-want +got):\n%s", diff)
	}
	got, err = applyPatch(in, []byte(`{"life":null}`), true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Knight"}, got.ToAny()); diff != "" {
		t.Errorf("merge patch mismatch (-want +got):\n%s", diff)
	}
}
