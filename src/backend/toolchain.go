// Package backend drives the external toolchain that turns the textual IR
// irgen produces into a runnable artifact. The reference compiler hand-wrote
// target assembly for ARM and RISC-V in this package (src/backend/arm,
// src/backend/riscv, backed by its own register allocator in
// src/backend/lir); that downstream code generation is out of scope here,
// so this package's job shrinks to the one stage still needed: handing the
// generic SSA module to opt/llc the way the spec's IR contract requires.
package backend

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"minicc/src/util"
)

// Run writes module (the textual .ll form of the IR generator's output) to a
// temporary file and pipes it through opt (when optimizations are
// requested) and llc, producing either assembly or, with opt.EmitObject, an
// object file at opt.Out.
func Run(opt util.Options, module string) error {
	llPath, err := writeTemp(module)
	if err != nil {
		return fmt.Errorf("writing IR to a temp file: %w", err)
	}
	defer os.Remove(llPath)

	if opt.Optimize {
		optimized, err := runOpt(llPath)
		if err != nil {
			return fmt.Errorf("opt: %w", err)
		}
		llPath = optimized
		defer os.Remove(llPath)
	}

	return runLLC(opt, llPath)
}

// writeTemp spills module to a *.ll file, since opt and llc both take a
// file path rather than stdin when asked to also honor -o.
func writeTemp(module string) (string, error) {
	f, err := os.CreateTemp("", "minicc-*.ll")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(module); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// runOpt pipes llPath through the LLVM optimizer's -O2 pipeline,
// returning the path to a new temp file holding the optimized IR.
func runOpt(llPath string) (string, error) {
	out, err := os.CreateTemp("", "minicc-opt-*.ll")
	if err != nil {
		return "", err
	}
	out.Close()

	cmd := exec.Command("opt", "-S", "-O2", "-o", out.Name(), llPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("%w: %s", err, stderr.String())
	}
	return out.Name(), nil
}

// runLLC invokes llc to lower llPath to assembly (the default) or, with
// opt.EmitObject, a native object file, writing the result to opt.Out or
// stdout.
func runLLC(opt util.Options, llPath string) error {
	args := []string{llPath, "-o", outputPath(opt)}
	if opt.EmitObject {
		args = append(args, "-filetype=obj")
	}

	cmd := exec.Command("llc", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", err, stderr.String())
	}
	return nil
}

// outputPath returns opt.Out, or "-" (llc's stdout marker) when no output
// path was given.
func outputPath(opt util.Options) string {
	if opt.Out == "" {
		return "-"
	}
	return opt.Out
}
