// Package errors defines the structured error taxonomy shared by the
// host/guest bridge.
//
// Every error carries a Phase (where it happened) and a Kind (what went
// wrong). Matching is done on the (Phase, Kind) pair via errors.Is, so
// callers can distinguish fatal startup failures from per-callback errors
// without string comparison:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}) {
//	    // contained at the callback boundary
//	}
//
// Only PhaseLoad/PhaseHost errors at startup and PhaseTerminal errors are
// allowed to terminate the process; everything else is absorbed into the
// visible log line.
package errors
