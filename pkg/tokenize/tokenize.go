package tokenize

import (
	stderrors "errors"
	"math"
	"strconv"

	"github.com/matzehuels/bstlayout/pkg/errors"
)

// MalformedPolicy selects how runs of sign/digit characters that are not a
// valid integer are handled.
type MalformedPolicy string

const (
	// MalformedReject fails the whole tokenization with ErrCodeMalformedToken.
	MalformedReject MalformedPolicy = "reject"
	// MalformedSkip drops the run and continues.
	MalformedSkip MalformedPolicy = "skip"
)

// OverflowPolicy selects how well-formed tokens outside the int64 range are
// handled.
type OverflowPolicy string

const (
	// OverflowReject fails the whole tokenization with ErrCodeIntegerOverflow.
	OverflowReject OverflowPolicy = "reject"
	// OverflowSaturate clamps to math.MinInt64 or math.MaxInt64.
	OverflowSaturate OverflowPolicy = "saturate"
)

// Options configures tokenization. The zero value rejects malformed and
// overflowing tokens and places no limit on the token count.
type Options struct {
	Malformed MalformedPolicy
	Overflow  OverflowPolicy
	// MaxTokens caps the number of integers produced. Zero means unlimited.
	MaxTokens int
}

// Validate checks the policy values and fills in defaults.
func (o *Options) Validate() error {
	if o.Malformed == "" {
		o.Malformed = MalformedReject
	}
	if o.Overflow == "" {
		o.Overflow = OverflowReject
	}
	if err := errors.ValidateOneOf("malformed policy", string(o.Malformed),
		string(MalformedReject), string(MalformedSkip)); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("overflow policy", string(o.Overflow),
		string(OverflowReject), string(OverflowSaturate)); err != nil {
		return err
	}
	if o.MaxTokens < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max tokens cannot be negative: %d", o.MaxTokens)
	}
	return nil
}

// Token is one integer found in the input.
type Token struct {
	Text   string // raw characters as they appeared in the input
	Offset int    // byte offset of the first character
	Value  int64
}

// Tokenize returns the integers in input in order of appearance.
// Empty input, or input without digits, yields an empty slice and no error.
func Tokenize(input string, opts Options) ([]int64, error) {
	var out []int64
	err := Scan(input, opts, func(tok Token) error {
		out = append(out, tok.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []int64{}
	}
	return out, nil
}

// Scan walks input and calls fn for each well-formed token. Scanning stops at
// the first error returned by fn or by the configured policies.
func Scan(input string, opts Options, fn func(Token) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	count := 0
	start := -1
	flush := func(end int) error {
		text := input[start:end]
		off := start
		start = -1

		v, ok, err := parseToken(text, off, opts)
		if err != nil || !ok {
			return err
		}
		count++
		if opts.MaxTokens > 0 && count > opts.MaxTokens {
			return errors.New(errors.ErrCodeInvalidInput, "too many integers (max %d)", opts.MaxTokens).
				With("max_tokens", opts.MaxTokens)
		}
		return fn(Token{Text: text, Offset: off, Value: v})
	}

	for i := 0; i < len(input); i++ {
		if isTokenByte(input[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if err := flush(i); err != nil {
				return err
			}
		}
	}
	if start >= 0 {
		return flush(len(input))
	}
	return nil
}

func isTokenByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-'
}

// parseToken converts one run of token characters. ok is false when the run
// was malformed and the policy says to skip it.
func parseToken(text string, off int, opts Options) (v int64, ok bool, err error) {
	if !wellFormed(text) {
		if opts.Malformed == MalformedSkip {
			return 0, false, nil
		}
		return 0, false, errors.New(errors.ErrCodeMalformedToken, "malformed token %q at offset %d", text, off).
			With("token", text).With("offset", off)
	}

	v, err = strconv.ParseInt(text, 10, 64)
	if err == nil {
		return v, true, nil
	}
	if stderrors.Is(err, strconv.ErrRange) {
		if opts.Overflow == OverflowSaturate {
			if text[0] == '-' {
				return math.MinInt64, true, nil
			}
			return math.MaxInt64, true, nil
		}
		return 0, false, errors.Wrap(errors.ErrCodeIntegerOverflow, err, "token %q at offset %d is out of range", text, off).
			With("token", text).With("offset", off)
	}
	return 0, false, errors.Wrap(errors.ErrCodeMalformedToken, err, "malformed token %q at offset %d", text, off).
		With("token", text).With("offset", off)
}

// wellFormed reports whether text matches [+-]?[0-9]+.
func wellFormed(text string) bool {
	digits := text
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
