package goss

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// ValidateBlocks runs the strict LIFO balance check over one file's block
// token stream. Every close pops the most recently opened construct; a
// close on an empty stack is reported at its own line, and every construct
// still open at end of file is reported at its opening line. Out-of-order
// closing cannot be detected locally (the language closes every block with
// a bare "end"), but the stack discipline guarantees the error surfaces as
// an unmatched or unclosed delimiter instead of being miscounted.
func ValidateBlocks(file string, tokens []model.BlockToken) []checks.Finding {
	type openBlock struct {
		construct model.Construct
		line      int
	}
	var stack []openBlock
	var findings []checks.Finding

	for _, tok := range tokens {
		switch tok.Kind {
		case model.TokenOpen:
			stack = append(stack, openBlock{construct: tok.Construct, line: tok.Line})
		case model.TokenClose:
			if len(stack) == 0 {
				findings = append(findings, checks.Errorf(file, tok.Line, "unmatched {{ end }}: no block is open"))
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}

	for _, o := range stack {
		findings = append(findings, checks.Errorf(file, o.line, "unclosed {{ %s }} block", o.construct))
	}
	return findings
}
