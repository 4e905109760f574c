package crop

import "fmt"

type TransformError struct {
	path string
	base error
}

func (e TransformError) Error() string {
	return fmt.Sprintf("Unable to transform image %s: %v", e.path, e.base)
}

func (e TransformError) Unwrap() error {
	return e.base
}
