package sse_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovelace/backend/internal/sse"
)

func TestReader_ReadData(t *testing.T) {
	t.Run("Sequence of events", func(t *testing.T) {
		input := "data: {\"content\":\"He\"}\n\ndata: {\"content\":\"llo\"}\n\ndata: [DONE]\n\n"
		reader := sse.NewReader(strings.NewReader(input))

		data, err := reader.ReadData()
		require.NoError(t, err)
		assert.Equal(t, `{"content":"He"}`, string(data))

		data, err = reader.ReadData()
		require.NoError(t, err)
		assert.Equal(t, `{"content":"llo"}`, string(data))

		data, err = reader.ReadData()
		require.NoError(t, err)
		assert.True(t, sse.IsDone(data))

		_, err = reader.ReadData()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		input := "data: {\"content\":\"hi\"}\r\n\r\n"
		reader := sse.NewReader(strings.NewReader(input))

		data, err := reader.ReadData()
		require.NoError(t, err)
		assert.Equal(t, `{"content":"hi"}`, string(data))
	})

	t.Run("Non-data fields are ignored", func(t *testing.T) {
		input := "event: error\nid: 1\n: comment\ndata: payload\n\n"
		reader := sse.NewReader(strings.NewReader(input))

		data, err := reader.ReadData()
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("Data without trailing blank line before EOF", func(t *testing.T) {
		input := "data: tail\n"
		reader := sse.NewReader(strings.NewReader(input))

		data, err := reader.ReadData()
		require.NoError(t, err)
		assert.Equal(t, "tail", string(data))

		_, err = reader.ReadData()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("Empty stream", func(t *testing.T) {
		reader := sse.NewReader(strings.NewReader(""))
		_, err := reader.ReadData()
		assert.Equal(t, io.EOF, err)
	})
}

func TestIsDone(t *testing.T) {
	assert.True(t, sse.IsDone([]byte("[DONE]")))
	assert.False(t, sse.IsDone([]byte(`{"content":"[DONE]"}`)))
}
