// Package diag implements the Diagnostics sink assumed by spec.md S1 as an
// external collaborator: a channel receiving warnings and fatal errors
// tagged with source line/column, per the message formats fixed by
// spec.md S7 ("Error <line>:<column>: ..." / "Warning <line>:<column>: ...").
package diag

import (
	"fmt"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

// Sink receives parser and builder diagnostics. Warning never aborts the
// run; Fatal always does (spec.md S7: "the first fatal condition
// terminates the process").
type Sink interface {
	Warningf(line, col int, format string, args ...any)
	Fatalf(line, col int, format string, args ...any)
}

// GologgerSink routes diagnostics through github.com/projectdiscovery/gologger,
// the same logging library projectdiscovery-alterx uses for its CLI output.
type GologgerSink struct{}

// NewGologgerSink constructs the default process-wide diagnostics sink.
func NewGologgerSink() *GologgerSink {
	return &GologgerSink{}
}

// SetVerbose raises or lowers gologger's max level, mirroring the
// -verbose/-silent flag wiring in projectdiscovery-alterx's CLI runner.
func SetVerbose(verbose, silent bool) {
	switch {
	case silent:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	case verbose:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
}

func (s *GologgerSink) Warningf(line, col int, format string, args ...any) {
	gologger.Warning().Msgf("Warning %d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

// Fatalf logs the fatal diagnostic and terminates the process with exit
// code 1, via gologger.Fatal() — matching spec.md S6's exit code contract.
func (s *GologgerSink) Fatalf(line, col int, format string, args ...any) {
	gologger.Fatal().Msgf("Error %d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

// RecordingSink is an in-memory Sink for tests: it records every warning
// and fatal call instead of writing to stderr or exiting the process.
type RecordingSink struct {
	Warnings []string
	Fatals   []string
}

// NewRecordingSink constructs an empty RecordingSink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Warningf(line, col int, format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf("Warning %d:%d: %s", line, col, fmt.Sprintf(format, args...)))
}

func (s *RecordingSink) Fatalf(line, col int, format string, args ...any) {
	s.Fatals = append(s.Fatals, fmt.Sprintf("Error %d:%d: %s", line, col, fmt.Sprintf(format, args...)))
}

// HasFatal reports whether Fatalf was ever called.
func (s *RecordingSink) HasFatal() bool {
	return len(s.Fatals) > 0
}
