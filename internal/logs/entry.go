package logs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"kinetic/internal/logging"
)

// Entry is one decoded JSON log line.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Stage     string
	JobID     int64
	Fields    map[string]string
	Raw       string
}

// ParseEntry decodes a JSON log line. Lines that are not JSON objects are
// returned with ok=false and only Raw populated.
func ParseEntry(line string) (Entry, bool) {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry, false
	}
	decoder := json.NewDecoder(strings.NewReader(trimmed))
	decoder.UseNumber()
	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return entry, false
	}

	entry.Fields = make(map[string]string, len(payload))
	for key, value := range payload {
		switch key {
		case "ts":
			if s, ok := value.(string); ok {
				entry.Time, _ = time.Parse(time.RFC3339, s)
			}
		case "level":
			entry.Level = strings.ToLower(stringify(value))
		case "msg":
			entry.Message = stringify(value)
		case logging.FieldComponent:
			entry.Component = stringify(value)
		case logging.FieldStage:
			entry.Stage = stringify(value)
		case logging.FieldJobID:
			entry.JobID, _ = strconv.ParseInt(stringify(value), 10, 64)
		default:
			entry.Fields[key] = stringify(value)
		}
	}
	return entry, true
}

// Filter selects entries. Zero values match everything.
type Filter struct {
	JobID     int64
	Component string
	MinLevel  string
}

// Match reports whether the entry passes the filter. Non-JSON lines pass only
// an empty filter.
func (f Filter) Match(entry Entry, parsed bool) bool {
	if !parsed {
		return f.JobID == 0 && f.Component == "" && f.MinLevel == ""
	}
	if f.JobID != 0 && entry.JobID != f.JobID {
		return false
	}
	if f.Component != "" && !strings.EqualFold(entry.Component, f.Component) {
		return false
	}
	if f.MinLevel != "" && levelRank(entry.Level) < levelRank(f.MinLevel) {
		return false
	}
	return true
}

// FormatEntry renders an entry as a single readable line with its remaining
// fields sorted by key.
func FormatEntry(entry Entry, parsed bool) string {
	if !parsed {
		return entry.Raw
	}
	var buf bytes.Buffer
	if !entry.Time.IsZero() {
		buf.WriteString(entry.Time.In(time.Local).Format("2006-01-02 15:04:05"))
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%-5s", strings.ToUpper(entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&buf, " [%s]", entry.Component)
	}
	subject := ""
	if entry.JobID != 0 {
		subject = "job " + strconv.FormatInt(entry.JobID, 10)
	}
	if entry.Stage != "" {
		if subject != "" {
			subject += "/"
		}
		subject += entry.Stage
	}
	if subject != "" {
		buf.WriteString(" " + subject + ":")
	}
	buf.WriteString(" " + entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for key := range entry.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := entry.Fields[key]
		if strings.ContainsAny(value, " \t") {
			value = strconv.Quote(value)
		}
		fmt.Fprintf(&buf, " %s=%s", key, value)
	}
	return buf.String()
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "info", "":
		return 1
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
