// Package shellwords splits shell-escaped command lines into argv tokens.
//
// The grammar is the subset of POSIX word splitting used by compilation
// databases: whitespace separates words, single quotes preserve their content
// literally, double quotes preserve whitespace, and a backslash outside single
// quotes escapes the character that follows it. No expansion of any kind is
// performed.
package shellwords

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminatedQuote is wrapped by TokenizationError when a quoted span never closes.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// TokenizationError reports a command string that cannot be split.
type TokenizationError struct {
	Command string // The command being split
	Offset  int    // Byte offset of the opening quote
	Quote   rune   // The quote character left open
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("failed to split command: unterminated %c quote at offset %d", e.Quote, e.Offset)
}

func (e *TokenizationError) Unwrap() error {
	return ErrUnterminatedQuote
}

type state int

const (
	stateNormal state = iota
	stateEscaped
	stateSingleQuote
	stateDoubleQuote
	stateDoubleQuoteEscaped
)

// Split tokenizes command into words.
//
// Adjacent quoted and unquoted spans join into a single word, so
// -DNAME="a b" yields the one word -DNAME=a b. An empty quoted span ("" or '')
// yields an empty word. A backslash-newline pair outside quotes is a line
// continuation and is dropped. A trailing lone backslash is kept literally.
func Split(command string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		st      = stateNormal
		quoteAt int
	)

	// Every special character is ASCII, so bytes are copied through untouched
	// and non-UTF-8 input survives unchanged.
	for i := 0; i < len(command); i++ {
		r := command[i]
		switch st {
		case stateNormal:
			switch {
			case isSpace(r):
				if inWord {
					args = append(args, word.String())
					word.Reset()
					inWord = false
				}
			case r == '\\':
				st = stateEscaped
			case r == '\'':
				st = stateSingleQuote
				quoteAt = i
				inWord = true
			case r == '"':
				st = stateDoubleQuote
				quoteAt = i
				inWord = true
			default:
				word.WriteByte(r)
				inWord = true
			}

		case stateEscaped:
			st = stateNormal
			if r == '\n' {
				continue
			}
			word.WriteByte(r)
			inWord = true

		case stateSingleQuote:
			if r == '\'' {
				st = stateNormal
				continue
			}
			word.WriteByte(r)

		case stateDoubleQuote:
			switch r {
			case '"':
				st = stateNormal
			case '\\':
				st = stateDoubleQuoteEscaped
			default:
				word.WriteByte(r)
			}

		case stateDoubleQuoteEscaped:
			word.WriteByte(r)
			st = stateDoubleQuote
		}
	}

	switch st {
	case stateEscaped:
		word.WriteByte('\\')
		inWord = true
	case stateSingleQuote:
		return nil, &TokenizationError{Command: command, Offset: quoteAt, Quote: '\''}
	case stateDoubleQuote, stateDoubleQuoteEscaped:
		return nil, &TokenizationError{Command: command, Offset: quoteAt, Quote: '"'}
	}

	if inWord {
		args = append(args, word.String())
	}

	return args, nil
}

func isSpace(r byte) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
