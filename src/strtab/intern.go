// Package strtab implements the string interner (spec component C):
// canonical storage for string literals, so that two StringLits with
// identical post-escape text share one record (testable property P5). Each
// record later gains a handle to the IR global constant holding its
// null-terminated bytes, filled in during IR emission.
package strtab

// Handle indexes a single interned string record.
type Handle int

// Record is one interned string: its raw (post-escape) text and, once the
// IR builder has emitted a global for it, the IR value backing it.
type Record struct {
	Text   string
	Global interface{} // *ir.Global from the IR builder; nil until emission.
}

// Table is the string interner: a mapping from literal text to an interned
// record, keyed for O(1) dedup.
type Table struct {
	records []Record
	byText  map[string]Handle
}

// New returns an empty string table.
func New() *Table {
	return &Table{byText: make(map[string]Handle)}
}

// Intern returns the Handle for text, creating a new record the first time
// this exact text is seen and returning the existing one on every later
// call with identical text (property P5: string interning).
func (t *Table) Intern(text string) Handle {
	if h, ok := t.byText[text]; ok {
		return h
	}
	h := Handle(len(t.records))
	t.records = append(t.records, Record{Text: text})
	t.byText[text] = h
	return h
}

// Text returns the raw text for a handle.
func (t *Table) Text(h Handle) string {
	return t.records[h].Text
}

// SetGlobal records the IR global backing the handle, called once during IR
// emission.
func (t *Table) SetGlobal(h Handle, g interface{}) {
	t.records[h].Global = g
}

// Global returns the IR global backing the handle, or nil before emission.
func (t *Table) Global(h Handle) interface{} {
	return t.records[h].Global
}

// Len returns the number of distinct interned strings.
func (t *Table) Len() int {
	return len(t.records)
}

// All returns the records in insertion order, for emitting one global
// constant per distinct interned string.
func (t *Table) All() []Record {
	return t.records
}
