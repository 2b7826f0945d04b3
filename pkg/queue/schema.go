package queue

import (
	"fmt"
	"strings"
)

// Schema maps each known job type to the payload fields it requires.
type Schema map[JobType][]string

// Validate checks that t is known and p carries every required field.
// Only presence is checked; the processor owns deeper validation.
func (s Schema) Validate(t JobType, p Payload) error {
	fields, ok := s[t]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJobType, t)
	}
	return p.Require(fields...)
}

// Require returns ErrMissingField naming every absent or blank field.
func (p Payload) Require(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(p[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
