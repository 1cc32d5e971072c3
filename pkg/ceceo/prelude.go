// Package ceceo provides the ceceo runtime.
package ceceo

import "github.com/TGMM/ceceo-llvm/internal/stdlib"

// DefaultPrelude contains the standard library definitions that are
// automatically loaded unless -no-stdlib is specified.
var DefaultPrelude = stdlib.Prelude
