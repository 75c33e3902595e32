package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, stream string) []Event {
	t.Helper()
	r := NewReader(io.NopCloser(strings.NewReader(stream)))
	defer r.Close()

	var out []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, *ev)
	}
}

func TestReader(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []Event
	}{
		{"single", "data: hello world\n\n", []Event{{Data: "hello world"}}},
		{"multiple", "data: first\n\ndata: second\n\n", []Event{{Data: "first"}, {Data: "second"}}},
		{"typed", "event: segment\ndata: {}\n\n", []Event{{Event: "segment", Data: "{}"}}},
		{"with id", "id: 42\ndata: x\n\n", []Event{{ID: "42", Data: "x"}}},
		{"multi-line", "data: a\ndata: b\ndata: c\n\n", []Event{{Data: "a\nb\nc"}}},
		{"comments", ": keepalive 1\n\ndata: hello\n\n", []Event{{Data: "hello"}}},
		{"no space", "data:tight\n\n", []Event{{Data: "tight"}}},
		{"crlf", "event: done\r\ndata: {}\r\n\r\n", []Event{{Event: "done", Data: "{}"}}},
		{"trailing without blank", "data: trailing", []Event{{Data: "trailing"}}},
		{"dataless event dropped", "event: ping\n\ndata: real\n\n", []Event{{Data: "real"}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, tt.stream)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := Event{Event: "transcription_segment", Data: `{"text":"hi"}`, ID: "7"}
	if got := string(in.Encode()); got != "id: 7\nevent: transcription_segment\ndata: {\"text\":\"hi\"}\n\n" {
		t.Errorf("Encode = %q", got)
	}
	got := readAll(t, string(in.Encode())+string(Event{Data: "l1\nl2"}.Encode()))
	if len(got) != 2 || got[0] != in || got[1].Data != "l1\nl2" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct{ line, field, value string }{
		{"data: hello", "data", "hello"},
		{"data:hello", "data", "hello"},
		{"data:  two", "data", " two"},
		{"retry: 3000", "retry", "3000"},
		{"fieldonly", "fieldonly", ""},
	}
	for _, tt := range tests {
		f, v := parseLine(tt.line)
		if f != tt.field || v != tt.value {
			t.Errorf("parseLine(%q) = (%q, %q), want (%q, %q)", tt.line, f, v, tt.field, tt.value)
		}
	}
}
