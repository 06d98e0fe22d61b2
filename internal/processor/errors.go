package processor

import "fmt"

// MalformedEventError marks an event whose required field is absent or
// unparseable. Fatal for the event; surfaced to the caller as a client error.
type MalformedEventError struct {
	Field string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: missing or invalid field %q", e.Field)
}
