// Package errs holds the shared parse-error and location types used by
// every stage of the pipeline (§3, §7 of the design). Parse errors are not
// Go errors: they accumulate in an append-only Log and never abort a stage.
package errs

import "fmt"

// Location is a (line, column, byte-offset) triple attached to every token,
// every CSS AST node, every DOM node, and every parse error. Lines and
// columns are 1-based, byte offsets are 0-based.
type Location struct {
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Code identifies a named parse-error kind. The set mirrors the HTML5
// tokenizer/tree-construction error names and a handful of CSS/style/layout
// analogues (§7 taxonomy categories 2–6).
type Code string

// Tokenizer error codes (HTML5 §8.2.4 names).
const (
	CodeAbruptDoctypePublicID   Code = "abrupt-doctype-public-identifier"
	CodeAbruptDoctypeSystemID   Code = "abrupt-doctype-system-identifier"
	CodeAbruptClosingEmptyCmt   Code = "abrupt-closing-of-empty-comment"
	CodeEOFInTag                Code = "eof-in-tag"
	CodeEOFInDoctype             Code = "eof-in-doctype"
	CodeEOFInComment             Code = "eof-in-comment"
	CodeEOFInCdata               Code = "eof-in-cdata"
	CodeEOFInScriptHTMLComment   Code = "eof-in-script-html-comment-like-text"
	CodeDuplicateAttribute       Code = "duplicate-attribute"
	CodeUnexpectedNull           Code = "unexpected-null-character"
	CodeUnexpectedQuestionMark   Code = "unexpected-question-mark-instead-of-tag-name"
	CodeInvalidFirstCharTagName  Code = "invalid-first-character-of-tag-name"
	CodeMissingAttrValue         Code = "missing-attribute-value"
	CodeMissingWhitespaceAttr    Code = "missing-whitespace-between-attributes"
	CodeMissingDoctypeName       Code = "missing-doctype-name"
	CodeMissingDoctypePublicID   Code = "missing-doctype-public-identifier"
	CodeMissingDoctypeSystemID   Code = "missing-doctype-system-identifier"
	CodeMissingWhitespaceDoctype Code = "missing-whitespace-before-doctype-name"
	CodeMissingSemicolonCharRef  Code = "missing-semicolon-after-character-reference"
	CodeUnknownNamedCharRef      Code = "unknown-named-character-reference"
	CodeCharRefOutsideUnicode    Code = "character-reference-outside-unicode-range"
	CodeSurrogateCharRef         Code = "surrogate-character-reference"
	CodeControlCharRef           Code = "control-character-reference"
	CodeNullCharRef              Code = "null-character-reference"
	CodeNonVoidSelfClosing       Code = "non-void-html-element-start-tag-with-trailing-solidus"
	CodeBogusComment             Code = "incorrectly-opened-comment"
	CodeCDATAInHTMLContent       Code = "cdata-in-html-content"
	CodeNestedComment            Code = "nested-comment"
)

// Tree-construction error codes.
const (
	CodeUnexpectedTokenInMode   Code = "unexpected-token-in-insertion-mode"
	CodeEndTagWithoutMatching   Code = "end-tag-without-matching-open-tag"
	CodeUnexpectedStartTagMode  Code = "unexpected-start-tag-in-insertion-mode"
	CodeUnexpectedEOF           Code = "unexpected-eof"
	CodeMisplacedDoctype        Code = "misplaced-doctype"
	CodeAdoptionAgencyOverflow  Code = "adoption-agency-iteration-overflow"
	CodeFosterParented          Code = "foster-parented-content"
)

// CSS parse-error codes.
const (
	CodeCSSExpectedGot     Code = "css-expected-got"
	CodeCSSUnknownAtRule   Code = "css-unknown-at-rule"
	CodeCSSBadAttrMatcher  Code = "css-bad-attribute-matcher"
	CodeCSSBadAnPlusB      Code = "css-bad-anplusb"
	CodeCSSUnterminated    Code = "css-unterminated-construct"
)

// Style-resolution warning codes.
const (
	CodeStyleUnknownProperty Code = "style-unknown-property"
	CodeStyleInvalidValue    Code = "style-invalid-value"
	CodeStyleUnresolvedVar   Code = "style-unresolved-var"
)

// Layout warning codes.
const (
	CodeLayoutUnresolvedUnit   Code = "layout-unresolved-unit"
	CodeLayoutBadAspectRatio   Code = "layout-bad-aspect-ratio"
)

// Resource-error codes.
const (
	CodeResourceFetchFailed  Code = "resource-fetch-failed"
	CodeResourceUndecodable  Code = "resource-undecodable"
)

// ParseError is one recorded deviation from well-formed input. It never
// aborts the producing stage.
type ParseError struct {
	Code     Code
	Location Location
	Detail   string
}

func (e ParseError) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at %s", e.Code, e.Location)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Location, e.Detail)
}

// Log is an append-only error log shared across a pipeline run. Per §8
// "parse-error idempotence", the same (line, column, code) triple is never
// recorded twice.
type Log struct {
	errs  []ParseError
	seen  map[triple]bool
}

type triple struct {
	line, col int
	code      Code
}

// NewLog creates an empty error log.
func NewLog() *Log {
	return &Log{seen: make(map[triple]bool)}
}

// Add records a parse error, deduplicating on (line, column, code).
func (l *Log) Add(code Code, loc Location, detail string) {
	if l == nil {
		return
	}
	key := triple{loc.Line, loc.Column, code}
	if l.seen[key] {
		return
	}
	l.seen[key] = true
	l.errs = append(l.errs, ParseError{Code: code, Location: loc, Detail: detail})
}

// Snapshot returns a copy of the errors recorded so far. Readers snapshot
// by copying, per §5's shared-resource mutation policy.
func (l *Log) Snapshot() []ParseError {
	if l == nil {
		return nil
	}
	out := make([]ParseError, len(l.errs))
	copy(out, l.errs)
	return out
}

// Len reports how many distinct errors have been recorded.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.errs)
}
