// Package validate vets user supplied names before they are persisted in the
// command store. Names become part of generated identifiers and on-disk keys,
// so anything that could break a path or a topic is rejected.
package validate

import "regexp"

const MaxNameLength = 50

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 _+-]+$`)

// Valid reports whether name is acceptable as a controller, device or
// command name. It never panics and has no side effects.
func Valid(name string) bool {
	if len(name) == 0 || len(name) > MaxNameLength {
		return false
	}

	return namePattern.MatchString(name)
}
