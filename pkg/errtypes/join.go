package errtypes

import "strings"

type joinErrors []error

// Join combines multiple errors (e.g. one per traverser in a lister cycle)
// into a single error whose message lists each of them.
func Join(errs ...error) error {
	return joinErrors(errs)
}

func (e joinErrors) Error() string {
	var b strings.Builder
	for i, err := range e {
		b.WriteString(err.Error())
		if i != len(e)-1 {
			b.WriteString("; ")
		}
	}
	return b.String()
}
