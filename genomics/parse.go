package genomics

import (
	"errors"
	"fmt"
)

// ErrEmptyGenome is wrapped by the FormatError returned for input with no genes.
var ErrEmptyGenome = errors.New("no genes")

// FormatError reports malformed genome text.
type FormatError struct {
	Input  string
	Pos    int // byte offset of the problem
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("genome format: %s at offset %d", e.Reason, e.Pos)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Parse reads canonical genome text such as "{001_002_..._010}{255_000_...}":
// one brace-delimited group of exactly GeneSize loci per gene, each locus three
// decimal digits in [000, 255]. Anything else is a *FormatError, so every text
// Parse accepts is reproduced byte for byte by String. If ids is nil the
// genome gets id 0.
func Parse(text string, ids *IDCounter) (*Genome, error) {
	genes, err := parseGenes(text)
	if err != nil {
		return nil, err
	}
	return &Genome{id: ids.Next(), genes: genes}, nil
}

func parseGenes(s string) ([]Gene, error) {
	fail := func(pos int, reason string) error {
		return &FormatError{Input: s, Pos: pos, Reason: reason}
	}
	if len(s) == 0 {
		return nil, &FormatError{Input: s, Pos: 0, Reason: "no genes", Err: ErrEmptyGenome}
	}

	var genes []Gene
	i := 0
	for i < len(s) {
		if s[i] != '{' {
			return nil, fail(i, fmt.Sprintf("expected '{', found %q", s[i]))
		}
		i++

		var gene Gene
		for l := 0; l < GeneSize; l++ {
			if l > 0 {
				if i == len(s) {
					return nil, fail(i, "unterminated gene")
				}
				if s[i] == '}' {
					return nil, fail(i, fmt.Sprintf("gene has %d loci, want %d", l, GeneSize))
				}
				if s[i] != '_' {
					return nil, fail(i, fmt.Sprintf("expected '_', found %q", s[i]))
				}
				i++
			}
			value, err := parseLocus(s, i)
			if err != nil {
				return nil, err
			}
			gene[l] = value
			i += locusDigits
		}

		if i == len(s) {
			return nil, fail(i, "unterminated gene")
		}
		if s[i] != '}' {
			if s[i] == '_' {
				return nil, fail(i, fmt.Sprintf("more than %d loci", GeneSize))
			}
			return nil, fail(i, fmt.Sprintf("expected '}', found %q", s[i]))
		}
		i++
		genes = append(genes, gene)
	}
	return genes, nil
}

const locusDigits = 3

// parseLocus reads the three-digit locus starting at s[pos].
func parseLocus(s string, pos int) (uint8, error) {
	value := 0
	for d := 0; d < locusDigits; d++ {
		i := pos + d
		if i == len(s) {
			return 0, &FormatError{Input: s, Pos: i, Reason: "unterminated gene"}
		}
		if !isDigit(s[i]) {
			return 0, &FormatError{Input: s, Pos: i, Reason: fmt.Sprintf("locus needs %d digits, found %q", locusDigits, s[i])}
		}
		value = value*10 + int(s[i]-'0')
	}
	if end := pos + locusDigits; end < len(s) && isDigit(s[end]) {
		return 0, &FormatError{Input: s, Pos: end, Reason: fmt.Sprintf("locus longer than %d digits", locusDigits)}
	}
	if value > 255 {
		return 0, &FormatError{Input: s, Pos: pos, Reason: "locus out of range"}
	}
	return uint8(value), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
