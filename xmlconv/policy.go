package xmlconv

import (
	"errors"
	"fmt"
	"strings"
)

// Policy selects how element attributes fold into the decoded structure.
type Policy int

const (
	// None drops attributes; elements decode to their text or children.
	None Policy = iota
	// Merge flattens attributes next to the element's children, with text
	// stored under the "value" key. Attributes win key collisions.
	Merge
	// Group decodes elements carrying attributes to
	// {"value": <content>, "attributes": {...}}.
	Group
	// Attribs decodes elements carrying attributes to their attributes
	// only, discarding text and children.
	Attribs
)

const (
	ValueKey      = "value"
	AttributesKey = "attributes"
)

var ErrBadPolicy = errors.New("bad xml policy")

var policyNames = [...]string{
	None:    "none",
	Merge:   "merge",
	Group:   "group",
	Attribs: "attribs",
}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy parses a policy name, ignoring case.
func ParsePolicy(v string) (Policy, error) {
	v = strings.ToLower(v)
	for i, name := range policyNames {
		if v == name {
			return Policy(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrBadPolicy, v)
}

func (p Policy) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(policyNames) {
		return nil, fmt.Errorf("%w: %d", ErrBadPolicy, int(p))
	}
	return []byte(policyNames[p]), nil
}

func (p *Policy) UnmarshalText(d []byte) error {
	v, err := ParsePolicy(string(d))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
