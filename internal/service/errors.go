package service

import "fmt"

type SaveError struct {
	name string
	base error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("Unable to save manifest %s: %v", e.name, e.base)
}

func (e SaveError) Unwrap() error {
	return e.base
}

type EncodeError struct {
	name string
	base error
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("Unable to encode manifest %s: %v", e.name, e.base)
}

func (e EncodeError) Unwrap() error {
	return e.base
}

type LoadError struct {
	name string
	base error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("Unable to load manifest %s: %v", e.name, e.base)
}

func (e LoadError) Unwrap() error {
	return e.base
}

type DecodeError struct {
	name string
	base error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("Unable to decode manifest %s: %v", e.name, e.base)
}

func (e DecodeError) Unwrap() error {
	return e.base
}

type DirError struct {
	path string
	base error
}

func (e DirError) Error() string {
	return fmt.Sprintf("Unable to read directory %s: %v", e.path, e.base)
}

func (e DirError) Unwrap() error {
	return e.base
}

type CleanError struct {
	dir  string
	base error
}

func (e CleanError) Error() string {
	return fmt.Sprintf("Unable to prepare gallery directory %s: %v", e.dir, e.base)
}

func (e CleanError) Unwrap() error {
	return e.base
}
