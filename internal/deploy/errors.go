package deploy

import "fmt"

type MissingSettingError struct {
	flag string
	env  string
}

func (e MissingSettingError) Error() string {
	return fmt.Sprintf("Missing -%s (or %s in the environment)", e.flag, e.env)
}

type BuildError struct {
	stage  string
	status int64
	base   error
}

func (e BuildError) Error() string {
	if e.base == nil {
		return fmt.Sprintf("Build failed during %s with exit code %d", e.stage, e.status)
	}
	return fmt.Sprintf("Build failed during %s: %v", e.stage, e.base)
}

func (e BuildError) Unwrap() error {
	return e.base
}

type PackageError struct {
	path string
	base error
}

func (e PackageError) Error() string {
	return fmt.Sprintf("Unable to package %s: %v", e.path, e.base)
}

func (e PackageError) Unwrap() error {
	return e.base
}

type CreateError struct {
	name string
	base error
}

func (e CreateError) Error() string {
	return fmt.Sprintf("Unable to create function %s: %v", e.name, e.base)
}

func (e CreateError) Unwrap() error {
	return e.base
}

type DeployError struct {
	name string
	base error
}

func (e DeployError) Error() string {
	return fmt.Sprintf("Unable to deploy function %s: %v", e.name, e.base)
}

func (e DeployError) Unwrap() error {
	return e.base
}

type InvokeError struct {
	name string
	base error
}

func (e InvokeError) Error() string {
	return fmt.Sprintf("Unable to invoke function %s: %v", e.name, e.base)
}

func (e InvokeError) Unwrap() error {
	return e.base
}

type LogsError struct {
	group string
	base  error
}

func (e LogsError) Error() string {
	return fmt.Sprintf("Unable to read logs for %s: %v", e.group, e.base)
}

func (e LogsError) Unwrap() error {
	return e.base
}
