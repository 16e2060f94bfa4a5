// Package expression compiles and runs the expr-lang programs that a
// configuration file uses in place of code: derived response data, the
// "function" check mode and file-declared interceptors.
//
// Programs are compiled once at load time and cached by source text, so two
// routes declaring the same expression share one *vm.Program.
package expression
