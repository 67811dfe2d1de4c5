package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(bufio.NewReader(strings.NewReader(input)), &out), &out
}

func TestPromptLine(t *testing.T) {
	p, out := prompter("  my photo.jpg \nlast")
	s, err := p.Line("Path: ")
	require.NoError(t, err)
	assert.Equal(t, "my photo.jpg", s)
	assert.Equal(t, "Path: ", out.String())

	s, err = p.Line("Next: ")
	require.NoError(t, err)
	assert.Equal(t, "last", s)

	_, err = p.Line("Again: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptLineDefault(t *testing.T) {
	p, out := prompter("\nother.png\n")
	s, err := p.LineDefault("Output file", "in_upscaled.png")
	require.NoError(t, err)
	assert.Equal(t, "in_upscaled.png", s)
	assert.Contains(t, out.String(), "Output file [in_upscaled.png]: ")

	s, err = p.LineDefault("Output file", "in_upscaled.png")
	require.NoError(t, err)
	assert.Equal(t, "other.png", s)
}

func TestPromptConfirm(t *testing.T) {
	p, out := prompter("maybe\nYES\n\nn\n")
	ok, err := p.Confirm("Overwrite?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "please answer y or n")

	ok, err = p.Confirm("Same?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("Same?", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptFloat(t *testing.T) {
	p, out := prompter("two\n0\nNaN\n2.5\n")
	v, err := p.Float("Scale: ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, 3, strings.Count(out.String(), "invalid scale"))
}

func TestMatch(t *testing.T) {
	items := []string{"bicubic", "lanczos", "edi", "edge"}
	cases := []struct {
		in   string
		want int
		msg  string
	}{
		{"1", 0, ""},
		{"4", 3, ""},
		{"0", -1, "invalid selection"},
		{"5", -1, "invalid selection"},
		{"LANCZOS", 1, ""},
		{"bi", 0, ""},
		{"edi", 2, ""},
		{"ed", -1, "ambiguous selection, candidates:\n  edi\n  edge"},
		{"nearest", -1, "unknown selection: nearest"},
	}
	for _, tc := range cases {
		got, msg := match(tc.in, items)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.msg, msg, tc.in)
	}
}

func TestChoose(t *testing.T) {
	p, out := prompter("\n")
	i, err := p.Choose("Method", []string{"bicubic", "lanczos"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Contains(t, out.String(), "  2) lanczos\n")
	assert.Contains(t, out.String(), "Method [lanczos]: ")

	p, _ = prompter("\n")
	_, err = p.Choose("Select", []string{"a.jpg"}, -1)
	assert.ErrorIs(t, err, errCancelled)
}
