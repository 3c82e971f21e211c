package domain

import (
	"errors"
	"fmt"
)

// ConfigurationError reports invalid or missing invocation parameters.
type ConfigurationError struct {
	Period string
	Reason string
	Err    error
}

func NewConfigurationError(period, reason string) *ConfigurationError {
	return &ConfigurationError{Period: period, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DataSourceError reports a failure to connect to or query the analytical store.
type DataSourceError struct {
	Period string
	Op     string
	Err    error
}

func NewDataSourceError(period, op string, err error) *DataSourceError {
	return &DataSourceError{Period: period, Op: op, Err: err}
}

func (e *DataSourceError) Error() string {
	if e.Period == "" {
		return fmt.Sprintf("data source error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("data source error: %s for period %s: %v", e.Op, e.Period, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure to persist the report file.
type WriteError struct {
	Period string
	Path   string
	Err    error
}

func NewWriteError(period, path string, err error) *WriteError {
	return &WriteError{Period: period, Path: path, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error: %s for period %s: %v", e.Path, e.Period, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsDataSourceError(err error) bool {
	var target *DataSourceError
	return errors.As(err, &target)
}

func IsWriteError(err error) bool {
	var target *WriteError
	return errors.As(err, &target)
}
