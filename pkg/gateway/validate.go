package gateway

import "regexp"

// identPattern is the allow-list for user-supplied SQL identifiers. Table
// names are interpolated into statement text (placeholders cannot bind
// identifiers), so anything outside this grammar is rejected before any SQL
// is built.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdentifier reports whether name is safe to interpolate as a SQL
// identifier.
func validIdentifier(name string) bool {
	return identPattern.MatchString(name)
}
