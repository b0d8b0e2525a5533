package directory

import "fmt"

// NotFoundError indicates the directory has no entry with the requested name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s named %q in the directory", e.Kind, e.Name)
}
