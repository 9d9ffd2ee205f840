package logger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// LogEntry is one parsed line of a category log file
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Category  string                 `json:"category"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogQuery narrows ReadLogs results. Zero values are ignored.
type LogQuery struct {
	Level string // exact level match
	Text  string // case-insensitive substring of the raw line
	Limit int    // newest N matching entries
}

// LogReader reads the daily files written by MultiLogger
type LogReader struct {
	logsDir string
}

// NewLogReader creates a new log reader
func NewLogReader(logsDir string) *LogReader {
	return &LogReader{
		logsDir: logsDir,
	}
}

// ValidCategory checks if a category has its own log file
func ValidCategory(category LogCategory) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// LogPath returns the path to a category log file for a date
func (lr *LogReader) LogPath(category LogCategory, date time.Time) string {
	return categoryLogPath(lr.logsDir, category, date)
}

// ReadLogs returns matching entries of a category log, oldest first.
// A missing file yields no entries.
func (lr *LogReader) ReadLogs(category LogCategory, date time.Time, query LogQuery) ([]LogEntry, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("unknown log category: %s", category)
	}

	file, err := os.Open(lr.LogPath(category, date))
	if os.IsNotExist(err) {
		return []LogEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	text := strings.ToLower(query.Text)
	level := strings.ToLower(query.Level)

	entries := []LogEntry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(line), text) {
			continue
		}

		entry := parseLogLine(line, category)
		if level != "" && entry.Level != level {
			continue
		}

		entries = append(entries, entry)
		if query.Limit > 0 && len(entries) > query.Limit {
			entries = entries[1:]
		}
	}

	return entries, scanner.Err()
}

// parseLogLine splits a zap JSON line into its well-known keys and the remaining fields
func parseLogLine(line string, category LogCategory) LogEntry {
	if !gjson.Valid(line) {
		return LogEntry{Level: "info", Message: line, Category: string(category)}
	}

	doc := gjson.Parse(line)
	entry := LogEntry{
		Timestamp: doc.Get("ts").String(),
		Level:     doc.Get("level").String(),
		Message:   doc.Get("msg").String(),
		Category:  doc.Get("category").String(),
	}
	if entry.Category == "" {
		entry.Category = string(category)
	}

	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "ts", "level", "msg", "category":
		default:
			if entry.Fields == nil {
				entry.Fields = make(map[string]interface{})
			}
			entry.Fields[key.String()] = value.Value()
		}
		return true
	})

	return entry
}
