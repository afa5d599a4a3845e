package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Apply(t *testing.T) {
	t.Run("raw append adds trailing snippet", func(t *testing.T) {
		s := NewStore("\\section{Skills}")

		got, err := s.Apply(Change{Kind: RawAppend, Snippet: "\\item Go"})
		require.NoError(t, err)

		assert.Equal(t, "\\section{Skills}\n\\item Go", got)
		assert.Equal(t, got, s.Text())
	})

	t.Run("raw append on empty document", func(t *testing.T) {
		s := NewStore("")

		got, err := s.Apply(Change{Kind: RawAppend, Snippet: "\\item Go"})
		require.NoError(t, err)
		assert.Equal(t, "\\item Go", got)
	})

	t.Run("blank snippet rejected", func(t *testing.T) {
		s := NewStore("text")

		_, err := s.Apply(Change{Kind: RawAppend, Snippet: "   \n"})
		assert.ErrorIs(t, err, ErrEmptySnippet)
		assert.Equal(t, "text", s.Text())
	})

	t.Run("replace all swaps the whole text", func(t *testing.T) {
		s := NewStore("old")

		got, err := s.Apply(Change{Kind: ReplaceAll, Text: "new document"})
		require.NoError(t, err)
		assert.Equal(t, "new document", got)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		s := NewStore("text")

		_, err := s.Apply(Change{Kind: ChangeKind(99)})
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestStore_Revert(t *testing.T) {
	s := NewStore("baseline")

	_, err := s.Apply(Change{Kind: ReplaceAll, Text: "service rewrite"})
	require.NoError(t, err)
	assert.Equal(t, "baseline", s.Revert())

	// A direct user edit moves the baseline.
	s.SetText("typed by hand")
	_, err = s.Apply(Change{Kind: ReplaceAll, Text: "another rewrite"})
	require.NoError(t, err)
	assert.Equal(t, "typed by hand", s.Revert())
}

func TestStore_WordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"plain words", "three plain words", 3},
		{"control sequences stripped", `\section{Intro} hello world`, 2},
		{"braces become separators", `{one}{two}`, 2},
		{"command with optional arg", `\usepackage[utf8]{inputenc} body text`, 2},
		{"only markup", `\maketitle \newpage`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.text)
			assert.Equal(t, tt.want, s.WordCount())
		})
	}
}

func TestStore_Highlights(t *testing.T) {
	t.Run("no markers", func(t *testing.T) {
		s := NewStore("line one\nline two")
		assert.Empty(t, s.Highlights())
	})

	t.Run("single pair", func(t *testing.T) {
		s := NewStore("a\n% tailor:hl:start\nb\nc\n% tailor:hl:end\nd")

		got := s.Highlights()
		require.Len(t, got, 1)
		assert.Equal(t, Range{StartLine: 3, EndLine: 4}, got[0])
	})

	t.Run("unclosed start extends to end", func(t *testing.T) {
		s := NewStore("a\n% tailor:hl:start\nb\nc")

		got := s.Highlights()
		require.Len(t, got, 1)
		assert.Equal(t, Range{StartLine: 3, EndLine: 4}, got[0])
	})

	t.Run("multiple pairs", func(t *testing.T) {
		s := NewStore("% tailor:hl:start\nx\n% tailor:hl:end\ny\n% tailor:hl:start\nz\n% tailor:hl:end")

		got := s.Highlights()
		require.Len(t, got, 2)
		assert.Equal(t, Range{StartLine: 2, EndLine: 2}, got[0])
		assert.Equal(t, Range{StartLine: 6, EndLine: 6}, got[1])
	})

	t.Run("stray end ignored", func(t *testing.T) {
		s := NewStore("% tailor:hl:end\ntext")
		assert.Empty(t, s.Highlights())
	})

	t.Run("adjacent markers enclose nothing", func(t *testing.T) {
		s := NewStore("a\n% tailor:hl:start\n% tailor:hl:end\nb")
		assert.Empty(t, s.Highlights())
	})

	t.Run("adjacent pair does not leak into a later one", func(t *testing.T) {
		s := NewStore("% tailor:hl:start\n% tailor:hl:end\n% tailor:hl:start\nx\n% tailor:hl:end")

		got := s.Highlights()
		require.Len(t, got, 1)
		assert.Equal(t, Range{StartLine: 4, EndLine: 4}, got[0])
	})
}
