package types

import (
	"errors"
	"fmt"
)

var (
	ErrParseFailure         = errors.New("content is neither delimited text nor a spreadsheet")
	ErrSchemaFailure        = errors.New("required columns are missing")
	ErrCorruptSnapshot      = errors.New("snapshot is unreadable")
	ErrInvalidDateSelection = errors.New("start date is after end date")
	ErrEmptyResult          = errors.New("no rows match the current filters")
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Message is a user-facing diagnostic handed to the presentation layer.
type Message struct {
	Level   Level  `json:"level"`
	Dataset string `json:"dataset,omitempty"`
	Text    string `json:"text"`
}

func Success(dataset, format string, args ...any) Message {
	return Message{Level: LevelSuccess, Dataset: dataset, Text: fmt.Sprintf(format, args...)}
}

func Error(dataset, format string, args ...any) Message {
	return Message{Level: LevelError, Dataset: dataset, Text: fmt.Sprintf(format, args...)}
}

func Info(dataset, format string, args ...any) Message {
	return Message{Level: LevelInfo, Dataset: dataset, Text: fmt.Sprintf(format, args...)}
}

func Warning(dataset, format string, args ...any) Message {
	return Message{Level: LevelWarning, Dataset: dataset, Text: fmt.Sprintf(format, args...)}
}

// CountLevel returns how many messages carry the given level.
func CountLevel(msgs []Message, level Level) int {
	n := 0
	for _, m := range msgs {
		if m.Level == level {
			n++
		}
	}
	return n
}
