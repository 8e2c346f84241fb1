package action

import "strings"

// failureList accumulates the reasons each strategy of a multi-strategy
// action failed. Reasons stay structured until the result boundary, where
// they join with a stable "; " delimiter.
type failureList []string

func (f *failureList) add(reason string) {
	*f = append(*f, reason)
}

func (f failureList) message() string {
	return strings.Join(f, "; ")
}
