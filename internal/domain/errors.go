package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDuplicate    = errors.New("duplicate record")

	// Plan-generation pipeline failures. Everything up to and including the
	// storage write is all-or-nothing; matching one of these means no roadmap
	// was persisted.
	ErrGenerationService = errors.New("generation service failure")
	ErrMalformedOutput   = errors.New("malformed generation output")
	ErrSchemaValidation  = errors.New("plan schema validation failed")
	ErrDateConsistency   = errors.New("plan date consistency violation")
	ErrStorage           = errors.New("storage failure")
)
