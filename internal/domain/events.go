package domain

import "errors"

// InvocationEvent is the payload accepted when running as a cloud function:
// every JPEG under the prefix in the bucket is cropped and the variants are
// uploaded next to their sources.
type InvocationEvent struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
}

func (e InvocationEvent) Validate() error {
	if e.Bucket == "" {
		return errors.New("missing bucket name in event")
	}

	return nil
}

// Output is the response body returned to the function caller.
type Output struct {
	Message string `json:"message"`
}
