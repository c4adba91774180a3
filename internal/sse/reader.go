package sse

import (
	"bufio"
	"bytes"
	"io"
)

// Reader incrementally parses Server-Sent Events from a byte stream. It
// reads line by line as bytes arrive, collecting `data:` fields until the
// blank-line event delimiter, and ignores other SSE fields (event:, id:,
// retry:, comments). It runs on a single control flow; callers suspend at
// each ReadData call, never in parallel.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadData returns the data payload of the next event. It returns io.EOF
// when the underlying stream ends; trailing data before EOF is returned
// first.
func (s *Reader) ReadData() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line terminates the current event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data: ")) {
			dataLines = append(dataLines, line[6:])
		} else if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
	}
}

// IsDone reports whether an event payload is the terminal sentinel.
func IsDone(data []byte) bool {
	return bytes.Equal(data, []byte(DoneSentinel))
}
