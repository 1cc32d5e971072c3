// Package stdlib embeds the ceceo prelude.
package stdlib

import _ "embed"

// Prelude defines the helper procedures loaded into every runtime unless
// disabled.
//
//go:embed prelude.scm
var Prelude string
