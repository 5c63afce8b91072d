package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type emptyTitleError struct{}

func (emptyTitleError) Error() string {
	return "title must not be empty"
}

type ambiguousIDError struct {
	prefix  string
	matches int
}

func (e ambiguousIDError) Error() string {
	return fmt.Sprintf("ambiguous task id %q: matches %d tasks", e.prefix, e.matches)
}
