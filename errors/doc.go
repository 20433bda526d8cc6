// Package errors provides structured error types for the palrtos library.
//
// Errors are categorized by Op (which primitive failed) and Kind (error
// category). Each Kind corresponds to one code of the closed Status
// vocabulary, so callers that need a status code can use StatusOf:
//
//	err := mtx.Wait(50)
//	switch errors.StatusOf(err) {
//	case errors.StatusSuccess:
//	case errors.StatusTimeout:
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpTimer, errors.KindInvalidArgument).
//		Handle(uint32(h)).
//		Detail("interval must be positive").
//		Build()
//
// Or the convenience constructors:
//
//	err := errors.Timeout(errors.OpMutex, 50)
//	err := errors.NoFineGrainedTimerLeft(10)
//
// Kind-only sentinels (ErrTimeout, ErrNoFineGrainedTimerLeft, ...) work with
// the standard errors.Is regardless of Op.
package errors
