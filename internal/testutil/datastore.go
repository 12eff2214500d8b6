package testutil

import (
	"fmt"
	"strings"
)

// NewTestDSN returns the DSN of a named in-memory sqlite database. Names of
// subtests contain '/', which would otherwise be read as a path.
func NewTestDSN(testName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, testName)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}
