package store

import (
	"fmt"
	"regexp"
	"strconv"
)

var idSuffix = regexp.MustCompile(`id-(\d+)`)

// sequence issues id-<n> identifiers. Seeding it with every persisted id at
// load time guarantees fresh ids never collide with restored ones, across
// restarts and imports alike.
type sequence struct {
	last int
}

func (s *sequence) next() string {
	s.last++
	return fmt.Sprintf("id-%d", s.last)
}

// observe records an existing id so future ids skip past its suffix. Ids
// that do not match the id-<n> pattern are ignored.
func (s *sequence) observe(id string) {
	m := idSuffix.FindStringSubmatch(id)
	if m == nil {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > s.last {
		s.last = n
	}
}
