// Package installer makes missing Python packages importable.
package installer

import "context"

// Installer attempts to make a package importable.
//
// The result is opaque: true means the install command completed
// successfully, not that the next import is guaranteed to succeed. The
// installer mutates shared environment state (the set of importable
// packages), so concurrent invocations against the same environment may
// race or duplicate work.
type Installer interface {
	Install(ctx context.Context, pkg string) bool
}
