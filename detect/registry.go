package detect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/xconv/debug"
	"github.com/signadot/xconv/format"
)

// Predicate reports whether a value belongs to a custom classification.
type Predicate func(v any) bool

var ErrBadClassifier = errors.New("bad classifier")

type entry struct {
	name string
	kind format.Kind
	pred Predicate
}

// Registry is an ordered set of named predicates, safe for concurrent use.
// Entries are never removed; registering a name again replaces its
// predicate and keeps its position.
type Registry struct {
	mux     sync.RWMutex
	entries []entry
	index   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Default is the process wide registry consulted by Classify.
var Default = NewRegistry()

// Register adds a named predicate to the default registry.
func Register(name string, p Predicate) error {
	return Default.Register(name, p)
}

// Register adds a named predicate. The kind it produces is derived from
// the name, see KindFromName.
func (r *Registry) Register(name string, p Predicate) error {
	if p == nil {
		return fmt.Errorf("%w: nil predicate for %q", ErrBadClassifier, name)
	}
	k := KindFromName(name)
	if k == "" {
		return fmt.Errorf("%w: empty name", ErrBadClassifier)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if i, ok := r.index[name]; ok {
		r.entries[i].pred = p
	} else {
		r.index[name] = len(r.entries)
		r.entries = append(r.entries, entry{name: name, kind: k, pred: p})
	}
	if debug.Registry() {
		debug.Logf("registered classifier %q (kind %s)\n", name, k)
	}
	return nil
}

// Names lists the registered names in registration order.
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	res := make([]string, len(r.entries))
	for i := range r.entries {
		res[i] = r.entries[i].name
	}
	return res
}

// Match runs the predicates in registration order and returns the kind of
// the first one matching v. A panicking predicate does not match.
func (r *Registry) Match(v any) (format.Kind, bool) {
	// predicates run outside the lock so they may classify recursively
	r.mux.RLock()
	entries := slices.Clone(r.entries)
	r.mux.RUnlock()
	for i := range entries {
		if safeCall(entries[i].pred, v) {
			return entries[i].kind, true
		}
	}
	return "", false
}

func safeCall(p Predicate, v any) (res bool) {
	defer func() {
		if r := recover(); r != nil {
			if debug.Registry() {
				debug.Logf("classifier panicked: %v\n", r)
			}
			res = false
		}
	}()
	return p(v)
}

// KindFromName derives a kind from a classifier name: an "is" prefix
// followed by an upper case letter is dropped and the first letter is
// lower cased, so "isBoolean" produces "boolean".
func KindFromName(name string) format.Kind {
	name = strings.TrimSpace(name)
	if rest, ok := strings.CutPrefix(name, "is"); ok {
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			name = rest
		}
	}
	if name == "" {
		return ""
	}
	r, n := utf8.DecodeRuneInString(name)
	return format.Kind(string(unicode.ToLower(r)) + name[n:])
}
