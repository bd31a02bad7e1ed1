// label.go generates the conventional basic-block name suffixes the IR
// builder uses (entry, if.then, if.else, while.cond, ...). Adapted from the
// reference compiler's assembly jump-label generator: same responsibility
// (per-kind monotonic sequence numbers), collapsed from a channel-backed
// server to a plain counter since the compilation pipeline is
// single-threaded and cooperative.

package util

import "fmt"

// Label kinds for basic blocks created by the IR builder.
const (
	LabelEntry = iota
	LabelIfThen
	LabelIfElse
	LabelIfEnd
	LabelWhileCond
	LabelWhileBody
	LabelWhileEnd
	LabelForCond
	LabelForBody
	LabelForEnd
	LabelAndRHS
	LabelAndEnd
	LabelOrRHS
	LabelOrEnd
)

var labelPrefixes = [...]string{
	"entry",
	"if.then",
	"if.else",
	"if.end",
	"while.cond",
	"while.body",
	"while.end",
	"for.cond",
	"for.body",
	"for.end",
	"and.rhs",
	"and.end",
	"or.rhs",
	"or.end",
}

// LabelGen generates unique, conventionally-named basic block labels for one
// function. A fresh LabelGen must be created per function so label sequence
// numbers restart; this mirrors the per-function SSA constructor state.
type LabelGen struct {
	seq [len(labelPrefixes)]int
}

// Next returns the next label of the given kind, e.g. "if.then1" the second
// time kind is LabelIfThen.
func (g *LabelGen) Next(kind int) string {
	if kind < 0 || kind >= len(labelPrefixes) {
		return fmt.Sprintf("label.invalid%d", kind)
	}
	n := g.seq[kind]
	g.seq[kind]++
	if n == 0 {
		return labelPrefixes[kind]
	}
	return fmt.Sprintf("%s%d", labelPrefixes[kind], n)
}
