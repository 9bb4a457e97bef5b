package serialized

import "fmt"

// Reason codes carried by ContainerFormatError.
const (
	ReasonTruncated     = "truncated"
	ReasonVersion       = "unsupported-version"
	ReasonMetadata      = "bad-metadata"
	ReasonTableSize     = "table-size"
	ReasonDuplicatePath = "duplicate-path-id"
)

// ContainerFormatError rejects a whole container. Sibling containers in the
// same batch are unaffected.
type ContainerFormatError struct {
	Name   string
	Reason string
	Detail string
}

func (e *ContainerFormatError) Error() string {
	return fmt.Sprintf("serialized: %s: %s: %s", e.Name, e.Reason, e.Detail)
}

func formatErr(name, reason, format string, args ...any) error {
	return &ContainerFormatError{Name: name, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
