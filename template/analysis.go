package template

// Analysis describes what one render touched. It is produced on
// request for introspection and debugging; rendering correctness never
// depends on it.
type Analysis struct {
	// Variables lists referenced variable names in first-use order,
	// deduplicated.
	Variables []string

	// Conditionals lists every conditional encountered with the
	// branch it resolved to.
	Conditionals []BranchTrace

	// Loops lists every loop encountered with its iteration count.
	Loops []LoopTrace

	// Functions lists invoked function names in call order. Calls in
	// untaken conditional branches never appear.
	Functions []string
}

// BranchTrace records one conditional and the branch taken.
type BranchTrace struct {
	Expr  string
	Taken bool // true when the {{#if}} branch ran
}

// LoopTrace records one loop and its iteration count.
type LoopTrace struct {
	List       string
	Iterations int
}
