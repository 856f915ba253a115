package web

import (
	"encoding/json"
	"net/http"

	"labelsync/pkg/github"
)

// streamSink writes each event as one NDJSON LogEntry and flushes it. After
// the first write error the client is assumed gone and later entries are
// dropped; the run itself continues.
type streamSink struct {
	enc     *json.Encoder
	flusher http.Flusher
	err     error
	written int
}

func newStreamSink(w http.ResponseWriter) *streamSink {
	s := &streamSink{enc: json.NewEncoder(w)}
	if f, ok := w.(http.Flusher); ok {
		s.flusher = f
	}
	return s
}

// HandleEvent implements github.EventSink
func (s *streamSink) HandleEvent(e github.Event) {
	s.write(EntryFromEvent(e))
}

func (s *streamSink) write(entry LogEntry) {
	if s.err != nil {
		return
	}
	if err := s.enc.Encode(entry); err != nil {
		s.err = err
		return
	}
	s.written++
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
