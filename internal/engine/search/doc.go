// Package search compiles find parameters into a matcher and runs it
// over single lines or multi-line windows of text.
//
// Literal case-sensitive patterns use a plain byte search. Everything
// else compiles to an RE2 regular expression in multi-line mode, with
// "(?i)" added for case-insensitive search. RE2 keeps \d, \w, \s and \b
// ASCII-only, which is the documented contract here.
//
// Whole-word matching is driven by a caller-supplied separator set plus
// every Unicode whitespace code point:
//
//	data, err := search.Params{
//		Pattern:        "foo",
//		WordSeparators: search.DefaultWordSeparators,
//	}.Compile()
//	if err != nil {
//		return err
//	}
//	matches := data.FindAll("foo foobar (foo)", 0, false)
//	// two matches: [0,3) and [12,15)
package search
