package main

import (
	"errors"
	"fmt"

	opts "github.com/goliatone/go-siteopts"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps configuration errors to exit code 2 and anything else to 1.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	var cfgErr *opts.ConfigError
	if errors.As(err, &cfgErr) {
		return &ExitError{Code: exitConfig, Err: err}
	}
	return &ExitError{Code: exitFailure, Err: err}
}
