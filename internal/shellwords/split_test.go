package shellwords

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"simple words", `gcc -c main.c`, []string{"gcc", "-c", "main.c"}},
		{"collapses whitespace", "  gcc \t -c\n main.c  ", []string{"gcc", "-c", "main.c"}},
		{"double quotes keep whitespace", `-DNAME="a b"`, []string{"-DNAME=a b"}},
		{"single quotes are literal", `'a \"b'`, []string{`a \"b`}},
		{"double quote inside single quotes", `'"'`, []string{`"`}},
		{"single quote inside double quotes", `"it's"`, []string{"it's"}},
		{"escaped quote inside double quotes", `"say \"hi\""`, []string{`say "hi"`}},
		{"backslash before plain char in double quotes", `"\-es."`, []string{"-es."}},
		{"escaped backslash", `a\\b`, []string{`a\b`}},
		{"escaped space outside quotes", `a\ b c`, []string{"a b", "c"}},
		{"empty double quoted word", `a "" b`, []string{"a", "", "b"}},
		{"empty single quoted word", `''`, []string{""}},
		{"adjacent spans join", `x'y'"z"`, []string{"xyz"}},
		{"line continuation", "a \\\nb", []string{"a", "b"}},
		{"trailing backslash is literal", `a\`, []string{`a\`}},
		{"non-utf8 bytes are preserved", "cc -I/src/caf\xe9 a.c", []string{"cc", "-I/src/caf\xe9", "a.c"}},
		{"non-utf8 bytes inside quotes", "'caf\xe9' \"d\xffir\"", []string{"caf\xe9", "d\xffir"}},
		{"multibyte utf8 is preserved", `"café dir"`, []string{"café dir"}},
		{
			"clang command with escaped quotes",
			`/usr/bin/clang++ -Irelative -DSOMEDEF="With spaces, quotes and \-es." -c -o file.o file.cc`,
			[]string{"/usr/bin/clang++", "-Irelative", "-DSOMEDEF=With spaces, quotes and -es.", "-c", "-o", "file.o", "file.cc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	for _, command := range []string{"", "   ", "\t\n"} {
		got, err := Split(command)
		require.NoError(t, err)
		assert.Empty(t, got, "command %q", command)
	}
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		wantOffset int
		wantQuote  rune
	}{
		{"open double quote", `gcc "-DX=1 -c`, 4, '"'},
		{"open single quote", `gcc 'x`, 4, '\''},
		{"escaped closing quote", `"a\"`, 0, '"'},
		{"second span left open", `"a" "b`, 4, '"'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.command)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrUnterminatedQuote))

			var tokErr *TokenizationError
			require.True(t, errors.As(err, &tokErr))
			assert.Equal(t, tt.command, tokErr.Command)
			assert.Equal(t, tt.wantOffset, tokErr.Offset)
			assert.Equal(t, tt.wantQuote, tokErr.Quote)
		})
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	args := []string{"gcc", "-DX=a b", "", "it's", `back\slash`, `"q"`, "-I/usr/include", "-I/src/caf\xe9"}

	joined := Join(args)
	got, err := Split(joined)
	require.NoError(t, err)
	assert.Equal(t, args, got)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "-I/usr/include", Quote("-I/usr/include"))
	assert.Equal(t, "''", Quote(""))
	assert.Equal(t, "'a b'", Quote("a b"))
	assert.Equal(t, `'it'\''s'`, Quote("it's"))
}
