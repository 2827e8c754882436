package compdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCompileFlags(t *testing.T) {
	db := FromCompileFlags("/home/user/proj", "-xc++\n-I\nlibwidget/include/\n", []string{"a.cc", "b.cc"})
	require.Equal(t, 2, db.Len())

	for i, file := range []string{"a.cc", "b.cc"} {
		entry := db[i]
		assert.Equal(t, "/home/user/proj", entry.Directory)
		assert.Equal(t, file, entry.File)
		assert.Empty(t, entry.Command)
		assert.Equal(t, FormArguments, entry.Form())
		require.NoError(t, entry.Validate())

		args, err := entry.Args()
		require.NoError(t, err)
		assert.Equal(t, []string{DefaultProgramName, "-xc++", "-I", "libwidget/include/", file}, args)
	}
}

func TestFromCompileFlags_BlankLinesIgnored(t *testing.T) {
	files := []string{"a.cc"}
	plain := FromCompileFlags("/proj", "-xc++\n-I\nlibwidget/include/\n", files)
	spaced := FromCompileFlags("/proj", "\n-xc++\n\n   \n-I\r\n\tlibwidget/include/  \n\n\t\n", files)

	assert.Equal(t, plain[0].Arguments, spaced[0].Arguments)
}

func TestFromCompileFlags_EmptyFileList(t *testing.T) {
	for _, files := range [][]string{nil, {}} {
		db := FromCompileFlags("/proj", "-Wall\n", files)
		assert.NotNil(t, db)
		assert.Equal(t, 0, db.Len())
	}
}

func TestFromCompileFlags_EmptyFlags(t *testing.T) {
	db := FromCompileFlags("/proj", "", []string{"main.c"})
	require.Equal(t, 1, db.Len())
	assert.Equal(t, []string{DefaultProgramName, "main.c"}, db[0].Arguments)
}

func TestFromCompileFlags_EntriesOwnArguments(t *testing.T) {
	db := FromCompileFlags("/proj", "-Wall\n", []string{"a.c", "b.c"})
	require.Equal(t, 2, db.Len())

	db[0].Arguments[1] = "-Werror"
	assert.Equal(t, []string{DefaultProgramName, "-Wall", "b.c"}, db[1].Arguments)
}

func TestParseCompileFlags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"one flag per line", "-Wall\n-std=c++17\n", []string{"-Wall", "-std=c++17"}},
		{"no trailing newline", "-Wall\n-O2", []string{"-Wall", "-O2"}},
		{"windows line endings", "-Wall\r\n-O2\r\n", []string{"-Wall", "-O2"}},
		{"lines are not shell split", "-DNAME=a b\n-I include dir\n", []string{"-DNAME=a b", "-I include dir"}},
		{"quotes are kept", `-DMSG="hi"` + "\n", []string{`-DMSG="hi"`}},
		{"hash is not a comment", "# not a comment\n-Wall\n", []string{"# not a comment", "-Wall"}},
		{"only blank lines", "\n \n\t\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCompileFlags(tt.text))
		})
	}
}

func TestConvertCompileFlags_Options(t *testing.T) {
	text := "# generated\n-Wall\n  # indented comment\n-O2\n"

	db := ConvertCompileFlags("/proj", text, []string{"a.c"}, FlagsOptions{
		ProgramName:   "clang",
		CommentPrefix: "#",
	})
	require.Equal(t, 1, db.Len())
	assert.Equal(t, []string{"clang", "-Wall", "-O2", "a.c"}, db[0].Arguments)

	// Empty program name falls back to the default.
	db = ConvertCompileFlags("/proj", "-O2\n", []string{"a.c"}, FlagsOptions{})
	assert.Equal(t, []string{DefaultProgramName, "-O2", "a.c"}, db[0].Arguments)
}
