// Package errors provides structured error types for structlayout.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a member path, the type tag involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindInvalidInput).
//		Path("fields", "c").
//		Type("i32").
//		Detail("unknown field type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported(errors.PhaseCheck, "u128", "no canonical ABI primitive")
//	err := errors.OutOfBounds(errors.PhaseProbe, path, 70000, 65536)
//
// The layout and grid packages never return errors; these types cover the
// surrounding persistence, probing, checking and rendering code.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
