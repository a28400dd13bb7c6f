// Package format names the representations xconv converts between and
// defines the error kinds shared by every codec.
//
// # Usage
//
//	k, err := format.Parse("json")
//	if k.IsText() {
//	    ...
//	}
//
// # Related Packages
//
//   - github.com/signadot/xconv/detect - classifies values into kinds
//   - github.com/signadot/xconv/convert - converts between kinds
package format
