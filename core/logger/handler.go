package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records with a stable key order so log lines
// stay grep-able and diff-able across components.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.cfg.level != nil {
		min = h.cfg.level.Level()
	}
	return level >= min
}

type fieldSet struct {
	keys   []string
	values map[string]slog.Value
}

func newFieldSet() *fieldSet {
	return &fieldSet{values: make(map[string]slog.Value, 16)}
}

func (f *fieldSet) put(key string, v slog.Value) {
	if key == "" {
		return
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

func (f *fieldSet) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Handle formats the slog.Record and writes it using the configured writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	fields := newFieldSet()
	prefix := strings.Join(h.groups, ".")
	addAttr := func(a slog.Attr) {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fields.put(key, a.Value.Resolve())
	}
	for _, a := range h.attrs {
		addAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(a)
		return true
	})

	// Fall back to the record message when no explicit event attribute is set.
	if !fields.has("event") && r.Message != "" {
		fields.put("event", slog.StringValue(r.Message))
	}

	// Context enrichment keeps call sites terse.
	if !fields.has("rid") {
		if rid := RIDFrom(ctx); rid != "" {
			fields.put("rid", slog.StringValue(rid))
		}
	}
	if !fields.has("update_id") {
		if id := UpdateIDFrom(ctx); id != 0 {
			fields.put("update_id", slog.IntValue(id))
		}
	}
	if !fields.has("user_id") {
		if id := UserIDFrom(ctx); id != 0 {
			fields.put("user_id", slog.Int64Value(id))
		}
	}
	if !fields.has("chat_id") {
		if id := ChatIDFrom(ctx); id != 0 {
			fields.put("chat_id", slog.Int64Value(id))
		}
	}
	if !fields.has("handler") {
		if handler := HandlerFrom(ctx); handler != "" {
			fields.put("handler", slog.StringValue(handler))
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	level := normalizeLevel(r.Level.String())

	var line []byte
	switch h.cfg.format {
	case formatKV:
		line = h.renderKV(ts, level, fields)
	default:
		line = h.renderJSON(ts, level, fields)
	}
	return h.cfg.writer.Write(line)
}

// WithAttrs returns a handler that includes the provided attrs on every record.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a handler that prefixes subsequent attr keys with the group name.
func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *structuredHandler) orderedKeys(fields *fieldSet) []string {
	ordered := make([]string, 0, len(fields.keys))
	seen := make(map[string]struct{}, len(fields.keys))
	for _, key := range h.cfg.keyOrder {
		if fields.has(key) {
			ordered = append(ordered, key)
			seen[key] = struct{}{}
		}
	}
	for _, key := range fields.keys {
		if _, ok := seen[key]; !ok {
			ordered = append(ordered, key)
		}
	}
	return ordered
}

func (h *structuredHandler) renderKV(ts time.Time, level string, fields *fieldSet) []byte {
	b := &strings.Builder{}
	b.WriteString("ts=")
	b.WriteString(ts.Format(timeFormatMillis))
	b.WriteString(" level=")
	b.WriteString(level)
	for _, key := range h.orderedKeys(fields) {
		v := fields.values[key]
		if key == "rid" {
			v = slog.StringValue(CompactRID(v.String()))
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(kvValue(v))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func (h *structuredHandler) renderJSON(ts time.Time, level string, fields *fieldSet) []byte {
	b := &strings.Builder{}
	b.WriteString(`{"ts":`)
	b.WriteString(strconv.Quote(ts.Format(timeFormatMillis)))
	b.WriteString(`,"level":`)
	b.WriteString(strconv.Quote(level))
	for _, key := range h.orderedKeys(fields) {
		v := fields.values[key]
		writeJSONField(b, key, v)
		if key == "rid" {
			// JSON keeps the raw correlation id next to the compact form.
			writeJSONField(b, "rid_full", slog.StringValue(v.String()))
		}
	}
	b.WriteString(`,"ts_unix_nano":`)
	b.WriteString(strconv.FormatInt(ts.UnixNano(), 10))
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeJSONField(b *strings.Builder, key string, v slog.Value) {
	b.WriteByte(',')
	b.WriteString(strconv.Quote(key))
	b.WriteByte(':')
	if key == "rid" {
		b.WriteString(strconv.Quote(CompactRID(v.String())))
		return
	}
	b.WriteString(jsonValue(v))
}

func kvValue(v slog.Value) string {
	s := scalarString(v)
	if s == "" || strings.ContainsAny(s, " =\"") {
		return strconv.Quote(s)
	}
	return s
}

func jsonValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		data, err := json.Marshal(scalarString(v))
		if err != nil {
			return `"?"`
		}
		return string(data)
	}
}

func scalarString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(timeFormatMillis)
	default:
		return v.String()
	}
}
