package markov

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// DefaultTokenizer is a default implementation of the Tokenizer interface.
// It lowercases its input, drops every character outside [a-z0-9'. ], and
// splits the rest into words, stray apostrophes and periods. A period is an
// End-Of-Chain (EOC) token. Its behavior can be customized with functional
// options.
type DefaultTokenizer struct {
	separator         string
	stripRegex        *regexp.Regexp
	separatorRegex    *regexp.Regexp
	eocRegex          *regexp.Regexp
	separatorExcRegex *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the character used for joining tokens during generation.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithStripRegex sets the regex matching characters removed before splitting.
// Matches are replaced by a space.
// Default: `[^a-z0-9'.]+`
func WithStripRegex(stripRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.stripRegex = regexp.MustCompile(stripRegex)
	}
}

// WithSeparatorRegex sets the regex string to use when splitting input text.
// Default: `[a-z0-9]+(?:'[a-z0-9]+)*|'|\.`
func WithSeparatorRegex(splitRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.separatorRegex = regexp.MustCompile(splitRegex)
	}
}

// WithEOCRegex sets the regex string to use when deciding whether a token is an EOC token or not.
// Default: `^\.$`
func WithEOCRegex(eocRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.eocRegex = regexp.MustCompile(eocRegex)
	}
}

// WithSeparatorExcRegex sets the regex string to use when deciding whether to add a separator before a token.
func WithSeparatorExcRegex(splitExcRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.separatorExcRegex = regexp.MustCompile(splitExcRegex)
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:  " ",
		stripRegex: regexp.MustCompile(`[^a-z0-9'.]+`),
		// Words may contain inner apostrophes (don't). An apostrophe that is
		// not between two word characters becomes a token of its own.
		separatorRegex:    regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)*|'|\.`),
		eocRegex:          regexp.MustCompile(`^\.$`),
		separatorExcRegex: regexp.MustCompile(`^\.`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator Returns the configured separator string.
func (t *DefaultTokenizer) Separator(_, next string) string {
	if t.separatorExcRegex.MatchString(next) {
		return ""
	}
	return t.separator
}

// Normalize lowercases s and replaces every run of disallowed characters
// with a single space.
func (t *DefaultTokenizer) Normalize(s string) string {
	return t.stripRegex.ReplaceAllString(strings.ToLower(s), " ")
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &DefaultStreamTokenizer{
		scanner:    bufio.NewScanner(r),
		buffer:     []string{},
		normalize:  t.Normalize,
		splitRegex: t.separatorRegex,
		eosRegex:   t.eocRegex,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer interface.
// It uses a bufio.Scanner and regular expressions to read and tokenize a stream.
type DefaultStreamTokenizer struct {
	scanner    *bufio.Scanner
	buffer     []string
	normalize  func(string) string
	splitRegex *regexp.Regexp
	eosRegex   *regexp.Regexp
}

// Next returns the next token from the stream. It returns a Token and a nil error on
// success. When the stream is exhausted, it returns a nil Token and io.EOF.
// Any other error indicates a problem reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.buffer = s.splitRegex.FindAllString(s.normalize(s.scanner.Text()), -1)
	}

	word := s.buffer[0]
	s.buffer = s.buffer[1:]

	return &Token{Text: word, EOC: s.eosRegex.MatchString(word)}, nil
}
