package trace

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// StreamTracer writes every event as soon as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	start  time.Time
	depth  map[uint64]int // span id -> nesting depth, for text indentation
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		out:    w,
		buf:    bufio.NewWriter(w),
		level:  level,
		format: format,
		start:  time.Now(),
		depth:  make(map[uint64]int),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	indent := 0
	switch ev.Kind {
	case KindSpanBegin:
		if d, ok := t.depth[ev.ParentID]; ok {
			indent = d + 1
		}
		t.depth[ev.SpanID] = indent
	case KindSpanEnd:
		indent = t.depth[ev.SpanID]
		delete(t.depth, ev.SpanID)
	case KindPoint:
		if d, ok := t.depth[ev.ParentID]; ok {
			indent = d + 1
		}
	}
	// ошибки записи трассы не должны ронять компиляцию
	_, _ = t.buf.Write(FormatEvent(ev, t.format, ev.Time.Sub(t.start), indent))
	if ev.Kind == KindSpanEnd && indent == 0 {
		_ = t.buf.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close flushes and closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
