package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soundprediction/stix-qa/pkg/types"
)

const insertErrorQuery = `
INSERT INTO execution_errors (
	id, timestamp, level, message,
	request_id, session_id, request_source,
	source_file, line_number, attributes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

type errorRow struct {
	id            string
	timestamp     time.Time
	level         string
	message       string
	requestID     string
	sessionID     string
	requestSource string
	sourceFile    string
	line          int
	attributes    string
}

// DuckDBHandler is a slog.Handler that mirrors ERROR records into DuckDB.
// Rows are written by a single background worker; Close drains it.
type DuckDBHandler struct {
	next  slog.Handler
	db    *sql.DB
	sink  *errorSink
	attrs []slog.Attr
}

type errorSink struct {
	rows chan errorRow
	done chan struct{}
	once sync.Once
	mu   sync.RWMutex
	shut bool
}

// NewDuckDBHandler creates a new DuckDBHandler
func NewDuckDBHandler(next slog.Handler, db *sql.DB) (*DuckDBHandler, error) {
	if err := InitSchema(db); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	sink := &errorSink{
		rows: make(chan errorRow, 256),
		done: make(chan struct{}),
	}
	go sink.run(db)

	return &DuckDBHandler{
		next: next,
		db:   db,
		sink: sink,
	}, nil
}

// InitSchema creates the execution_errors table
func InitSchema(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS execution_errors (
		id VARCHAR,
		timestamp TIMESTAMP,
		level VARCHAR,
		message VARCHAR,
		request_id VARCHAR,
		session_id VARCHAR,
		request_source VARCHAR,
		source_file VARCHAR,
		line_number INTEGER,
		attributes JSON
	);
	`
	_, err := db.Exec(query)
	return err
}

func (s *errorSink) run(db *sql.DB) {
	defer close(s.done)
	for row := range s.rows {
		_, err := db.Exec(insertErrorQuery,
			row.id, row.timestamp, row.level, row.message,
			row.requestID, row.sessionID, row.requestSource,
			row.sourceFile, row.line, row.attributes,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to log error to DuckDB: %v\n", err)
		}
	}
}

func (s *errorSink) enqueue(row errorRow) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shut {
		return
	}
	select {
	case s.rows <- row:
	default:
		fmt.Fprintf(os.Stderr, "DuckDB error sink full, dropping record %q\n", row.message)
	}
}

func (s *errorSink) close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.shut = true
		close(s.rows)
		s.mu.Unlock()
	})
	<-s.done
}

// Enabled implements slog.Handler
func (h *DuckDBHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *DuckDBHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < slog.LevelError {
		return nil
	}

	attrs := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = attrValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = attrValue(a.Value)
		return true
	})

	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		attrsJSON = []byte("{}")
	}

	fs := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := fs.Next()

	h.sink.enqueue(errorRow{
		id:            uuid.New().String(),
		timestamp:     r.Time.UTC(),
		level:         r.Level.String(),
		message:       r.Message,
		requestID:     types.ContextString(ctx, types.ContextKeyRequestID),
		sessionID:     types.ContextString(ctx, types.ContextKeySessionID),
		requestSource: types.ContextString(ctx, types.ContextKeyRequestSource),
		sourceFile:    f.File,
		line:          f.Line,
		attributes:    string(attrsJSON),
	})

	return nil
}

// attrValue flattens values json.Marshal cannot represent, errors in particular.
func attrValue(v slog.Value) interface{} {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	if v.Kind() == slog.KindGroup {
		group := make(map[string]interface{})
		for _, a := range v.Group() {
			group[a.Key] = attrValue(a.Value)
		}
		return group
	}
	return v.Any()
}

// WithAttrs implements slog.Handler
func (h *DuckDBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DuckDBHandler{
		next:  h.next.WithAttrs(attrs),
		db:    h.db,
		sink:  h.sink,
		attrs: merged,
	}
}

// WithGroup implements slog.Handler
func (h *DuckDBHandler) WithGroup(name string) slog.Handler {
	return &DuckDBHandler{
		next:  h.next.WithGroup(name),
		db:    h.db,
		sink:  h.sink,
		attrs: h.attrs,
	}
}

// Close flushes pending rows. The database itself is owned by the caller.
func (h *DuckDBHandler) Close() error {
	h.sink.close()
	return nil
}
