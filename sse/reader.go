package sse

import (
	"bufio"
	"io"
	"strings"
)

// MaxLineSize bounds a single SSE line.
const MaxLineSize = 1 << 20

// Reader reads server-sent events from a stream.
type Reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

// NewReader creates an SSE reader over body.
func NewReader(body io.ReadCloser) *Reader {
	s := bufio.NewScanner(body)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{scanner: s, body: body}
}

// Next returns the next event, or io.EOF when the stream ends. Events
// without data lines are skipped, as are comments.
func (r *Reader) Next() (*Event, error) {
	var ev Event
	var hasData bool

	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if line == "" {
			if hasData {
				return &ev, nil
			}
			ev = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				ev.Data += "\n" + value
			} else {
				ev.Data = value
				hasData = true
			}
		case "event":
			ev.Event = value
		case "id":
			ev.ID = value
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		return &ev, nil
	}
	return nil, io.EOF
}

// Close releases the underlying stream.
func (r *Reader) Close() error {
	return r.body.Close()
}

func parseLine(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}
