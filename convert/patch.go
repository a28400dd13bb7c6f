package convert

import (
	"fmt"

	"github.com/signadot/xconv/debug"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// Patch applies an RFC 6902 JSON patch document to v. The patched object
// comes back with its keys in the order the patch library writes them.
func Patch(v any, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	d, err := patchTarget(v)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return jsonfmt.Decode(out)
}

// MergePatch applies an RFC 7386 merge patch to v.
func MergePatch(v any, patch []byte) (*ir.Node, error) {
	d, err := patchTarget(v)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return jsonfmt.Decode(out)
}

func patchTarget(v any) ([]byte, error) {
	node, err := structure(v)
	if err != nil {
		return nil, err
	}
	d, err := jsonfmt.Marshal(node)
	if err != nil {
		return nil, err
	}
	if debug.Normalize() {
		debug.Logf("patch target: %s\n", d)
	}
	return d, nil
}
