package llm

// StaticStream replays fixed chunks, then ends with err (nil for a clean end).
type StaticStream struct {
	chunks []string
	err    error
	pos    int
	closed bool
}

// NewStaticStream returns a stream over chunks that ends with err.
func NewStaticStream(chunks []string, err error) *StaticStream {
	return &StaticStream{chunks: chunks, err: err, pos: -1}
}

func (s *StaticStream) Next() bool {
	if s.closed {
		return false
	}
	for s.pos+1 < len(s.chunks) {
		s.pos++
		if s.chunks[s.pos] != "" {
			return true
		}
	}
	s.pos = len(s.chunks)
	return false
}

func (s *StaticStream) Current() string {
	if s.pos < 0 || s.pos >= len(s.chunks) {
		return ""
	}
	return s.chunks[s.pos]
}

func (s *StaticStream) Err() error {
	if s.pos >= len(s.chunks) {
		return s.err
	}
	return nil
}

func (s *StaticStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *StaticStream) Closed() bool {
	return s.closed
}
