package main

import (
	"fmt"
	"os"

	"minicc/src/ast"
	"minicc/src/backend"
	"minicc/src/irgen"
	"minicc/src/lexer"
	"minicc/src/parser"
	"minicc/src/util"
)

// run drives the compiler pipeline end to end: lex, parse (with integrated
// semantic checking), emit IR, and hand it to the external toolchain.
// Behaviour is governed by the util.Options structure parsed from argv.
func run(opt util.Options, w *util.Writer) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}

	toks := lexer.Lex(src)
	prog, p := parser.Parse(toks, opt.Src)
	if p.Diags.Len() > 0 {
		w.WriteString(p.Diags.Render(src))
		// Any recorded diagnostic — fatal or not — means the program was
		// never fully resolved (undeclared identifiers and type mismatches
		// substitute a dummy identifier rather than aborting parsing), so IR
		// emission must not run over it: a dummy read reaches SSA lookup
		// code that was never written to, producing invalid IR instead of
		// failing cleanly.
		return fmt.Errorf("compilation failed with %d diagnostic(s)", p.Diags.Len())
	}

	if opt.PrintAST {
		ast.Print(os.Stdout, prog)
	}

	m, err := irgen.Generate(prog, p.Strs, p.NeedsPrintf)
	if err != nil {
		return fmt.Errorf("IR generation error: %w", err)
	}

	if opt.PrintIR {
		w.WriteString(m.String())
	}

	return backend.Run(opt, m.String())
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Help {
		fmt.Print(util.Usage())
		return
	}

	w := util.NewWriter()
	defer w.Close()

	if err := run(opt, w); err != nil {
		w.Close() // os.Exit skips the deferred Close; flush diagnostics first.
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
