package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBased_TableRequest(t *testing.T) {
	a := NewRuleBased()

	reply, err := a.Reply(context.Background(), Request{
		Message: "Build me a table of the documents",
		Documents: []Document{
			{Filename: "notes.txt", Content: "hello world"},
			{Filename: "report, v2.pdf", Content: "quarterly results"},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, reply.File)
	assert.Equal(t, "summary.txt", reply.File.Filename)
	assert.Equal(t, "txt", reply.File.FileType)

	lines := strings.Split(strings.TrimSpace(string(reply.File.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "document,characters", lines[0])
	assert.Equal(t, "notes.txt,11", lines[1])
	// запятая в имени файла не ломает формат
	assert.Equal(t, "report  v2.pdf,17", lines[2])
}

func TestRuleBased_TableWithoutDocuments(t *testing.T) {
	a := NewRuleBased()

	reply, err := a.Reply(context.Background(), Request{Message: "сделай таблицу"})

	require.NoError(t, err)
	require.NotNil(t, reply.File)
	assert.Contains(t, string(reply.File.Content), "no documents,0")
}

func TestRuleBased_Summary(t *testing.T) {
	a := NewRuleBased()

	reply, err := a.Reply(context.Background(), Request{
		Message: "Summarize the uploaded files please",
		Documents: []Document{
			{Filename: "notes.txt", Content: "The  meeting\ncovered   budget planning."},
		},
	})

	require.NoError(t, err)
	assert.Nil(t, reply.File)
	assert.Contains(t, reply.Content, "notes.txt")
	// пробелы и переводы строк схлопнуты в выдержке
	assert.Contains(t, reply.Content, "The meeting covered budget planning.")
}

func TestRuleBased_SummaryWithoutDocuments(t *testing.T) {
	a := NewRuleBased()

	reply, err := a.Reply(context.Background(), Request{Message: "summarize"})

	require.NoError(t, err)
	assert.Nil(t, reply.File)
	assert.Contains(t, reply.Content, "no documents")
}

func TestRuleBased_Default(t *testing.T) {
	a := NewRuleBased()

	t.Run("empty chat", func(t *testing.T) {
		reply, err := a.Reply(context.Background(), Request{Message: "hello"})
		require.NoError(t, err)
		assert.Nil(t, reply.File)
		assert.Contains(t, reply.Content, "Upload a document")
	})

	t.Run("with documents", func(t *testing.T) {
		reply, err := a.Reply(context.Background(), Request{
			Message:   "what do you think?",
			Documents: []Document{{Filename: "a.txt"}, {Filename: "b.txt"}},
		})
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "2 document(s)")
	})
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "(empty)", excerpt("   ", 10))
	assert.Equal(t, "short", excerpt("short", 10))

	long := strings.Repeat("д", 130)
	got := excerpt(long, 120)
	assert.Equal(t, 123, len([]rune(got)), "120 runes plus ellipsis")
	assert.True(t, strings.HasSuffix(got, "..."))
}
