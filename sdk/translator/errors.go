package translator

import "errors"

var (
	// ErrInvalidPayload reports a payload that is not the JSON shape a converter expects.
	ErrInvalidPayload = errors.New("translator: invalid payload")
	// ErrUnsupportedFormat reports a format identifier the engine does not know.
	ErrUnsupportedFormat = errors.New("translator: unsupported format")
	// ErrConversionFailed wraps a converter failure recovered at the engine boundary.
	ErrConversionFailed = errors.New("translator: conversion failed")
)
