package tb

import "fmt"

// DataMismatchError reports a word read back that differs from the word
// written.
type DataMismatchError struct {
	Scenario string
	Round    int
	Index    int
	Expected uint64
	Actual   uint64
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: input data does not match output in round %d, word %d: expected %d, got %d",
		e.Scenario, e.Round, e.Index, e.Expected, e.Actual)
}

// StatusMismatchError reports a status flag with an unexpected value.
type StatusMismatchError struct {
	Scenario string
	Flag     string
	Expected uint64
	Actual   uint64
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("%s: %s is %d, expected %d",
		e.Scenario, e.Flag, e.Actual, e.Expected)
}

// ConfigError reports a device that lacks a signal or parameter a scenario
// needs.
type ConfigError struct {
	Scenario string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: configuration error: %v", e.Scenario, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
