// Command lexgen reads a line-oriented non-terminal grammar, parses it
// into an expression forest, compiles the forest into a single unioned
// Thompson NFA, and emits the resulting automaton (spec.md S6).
package main

import (
	"os"

	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/grammar"
	"github.com/coregx/lexgen/graph"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pool"
	"github.com/k0kubun/pp/v3"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
)

// options holds the parsed CLI flags, in projectdiscovery-alterx's
// ParseFlags/Options style.
type options struct {
	File    string
	Output  string
	Format  string
	Verbose bool
	Silent  bool
	DebugPP bool
}

func parseFlags() *options {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("Compiles a non-terminal grammar into a Thompson NFA.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.File, "file", "f", "", "grammar file to read (default stdin)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "file to write the emitted automaton (default stdout)"),
		flagSet.StringVarP(&opts.Format, "format", "fmt", "text", "emission format: text, dot, yaml"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose diagnostics"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "suppress all but fatal diagnostics"),
		flagSet.BoolVar(&opts.DebugPP, "debug-pp", false, "pretty-print the parsed expression forest before building the NFA"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not read flags: %s\n", err)
	}
	return opts
}

func main() {
	opts := parseFlags()
	diag.SetVerbose(opts.Verbose, opts.Silent)
	sink := diag.NewGologgerSink()

	in := os.Stdin
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			gologger.Fatal().Msgf("failed to open %s: %v", opts.File, err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			gologger.Fatal().Msgf("failed to create %s: %v", opts.Output, err)
		}
		defer f.Close()
		out = f
	}

	p := grammar.NewParser(sink)
	if err := p.ParseAll(in); err != nil {
		reportFatal(sink, err)
	}
	if err := p.CheckComplete(); err != nil {
		reportFatal(sink, err)
	}

	if opts.DebugPP {
		for i := 0; i < p.Nonterms.Len(); i++ {
			nt := p.Nonterms.MustGet(pool.Offset(i))
			pp.Fprintln(os.Stderr, map[string]string{nt.Name: p.DebugString(nt)})
		}
	}

	builder := nfa.NewBuilder(p)
	handle, _, err := builder.BuildAll()
	if err != nil {
		reportFatal(sink, err)
	}

	emitter := graph.NewEmitter(builder.States, builder.Edges)
	if err := emitter.Emit(out, handle.Start, graph.Format(opts.Format)); err != nil {
		reportFatal(sink, err)
	}
}

// positioned is satisfied by errors that carry a source line/column
// (grammar.SyntaxError, grammar.UndefinedNonTerminalError,
// term.EscapeAtEndError).
type positioned interface {
	Position() (int, int)
}

// reportFatal converts a returned error into the diagnostic-sink call
// and process exit spec.md S7 assigns to the first fatal condition.
func reportFatal(sink diag.Sink, err error) {
	line, col := 0, 0
	if pe, ok := err.(positioned); ok {
		line, col = pe.Position()
	}
	sink.Fatalf(line, col, "%s", err.Error())
	// GologgerSink.Fatalf already calls os.Exit(1); this is reached only
	// when sink is a test double that does not.
	os.Exit(1)
}
