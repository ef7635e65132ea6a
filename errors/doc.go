// Package errors provides structured error types for the ECS bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: a declaration path, the declared type name,
// the host-side type name, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSchema, errors.KindUnsupported).
//		Path("components", "Speed", "value").
//		Type("bool").
//		Detail("field type is not a primitive numeric").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported(errors.PhaseSchema, "field type bool")
//	err := errors.InvalidEnum(errors.PhaseDecode, path, 9, "GameState")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
