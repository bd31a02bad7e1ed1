// args.go provides hand-rolled command line argument parsing, in the style
// of the reference compiler: no flag-parsing library, just a scan over
// os.Args. The flags here are the driver surface described by the
// specification's External Interfaces section; none of it is part of the
// compiler core.

package util

import (
	"fmt"
	"os"
)

// Options holds the parsed command line configuration for a compiler run.
type Options struct {
	Src        string // Path to source file.
	Out        string // Path to output file. Empty means stdout.
	PrintAST   bool   // -a: print AST.
	PrintIR    bool   // -b: print IR.
	EmitObject bool   // -c: produce object code via the external toolchain.
	Optimize   bool   // -O: enable optimizations in the external toolchain.
	Help       bool   // -h: print usage and exit.
}

const usage = `usage: minicc [-a] [-b] [-c] [-O] [-o path] <source-file>
  -a         print the parsed AST
  -b         print the emitted IR
  -c         produce an object file via the external toolchain
  -O         enable optimizations in the external toolchain
  -o path    write output to path instead of stdout
  -h         print this message
`

// ParseArgs parses os.Args[1:] into an Options structure.
func ParseArgs() (Options, error) {
	opt := Options{}
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a":
			opt.PrintAST = true
		case "-b":
			opt.PrintIR = true
		case "-c":
			opt.EmitObject = true
		case "-O":
			opt.Optimize = true
		case "-h":
			opt.Help = true
		case "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("-o requires a path argument")
			}
			i++
			opt.Out = args[i]
		default:
			if len(args[i]) > 0 && args[i][0] == '-' {
				return opt, fmt.Errorf("unrecognized flag %q", args[i])
			}
			if len(opt.Src) > 0 {
				return opt, fmt.Errorf("multiple source files given: %q and %q", opt.Src, args[i])
			}
			opt.Src = args[i]
		}
	}
	if !opt.Help && len(opt.Src) == 0 {
		return opt, fmt.Errorf("no source file given")
	}
	return opt, nil
}

// Usage returns the command line usage string.
func Usage() string {
	return usage
}
