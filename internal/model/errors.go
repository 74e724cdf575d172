package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrEmptyPrompt is returned when a generation is requested without a prompt.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrBusy is returned when a generation is requested while another one is in flight.
	ErrBusy = errors.New("generation already in progress")
	// ErrNotRetryable is returned when a retry is requested outside the error state.
	ErrNotRetryable = errors.New("generation is not in a retryable state")
	// ErrNoArtifact is returned when an export is requested without a generated artifact.
	ErrNoArtifact = errors.New("no generated artifact")
	// ErrDisposed is returned when a disposed controller is used.
	ErrDisposed = errors.New("disposed")
)
