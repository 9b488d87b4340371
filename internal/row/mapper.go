// Package row shapes input records into fine-tuning output rows.
package row

import (
	"fmt"
	"sort"

	"github.com/nucleus/sft-convert/internal/dataset"
)

// Supported output formats.
const (
	FormatSingleTurn = "single_turn"
	FormatMessages   = "messages"
)

// Chat roles used by the messages format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Row is a single mapped output record keyed by column name.
type Row = map[string]any

// Message is one chat turn in the messages output shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Mapper converts records into rows of a fixed output shape. It is a pure
// transform: no state is carried between records.
type Mapper struct {
	InputKey     string
	OutputKey    string
	Format       string
	SystemPrompt string
}

// NewMapper builds a mapper for the designated record fields and output shape.
func NewMapper(inputKey, outputKey, format, systemPrompt string) *Mapper {
	return &Mapper{
		InputKey:     inputKey,
		OutputKey:    outputKey,
		Format:       format,
		SystemPrompt: systemPrompt,
	}
}

// Map validates one record and produces exactly one row. A missing field and
// a present-but-null field are treated the same.
func (m *Mapper) Map(rec dataset.Record) (Row, error) {
	question := rec[m.InputKey]
	answer := rec[m.OutputKey]
	if question == nil || answer == nil {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, wrapError(CodeMissingField,
			fmt.Errorf("missing keys %q / %q, got keys=%v", m.InputKey, m.OutputKey, keys))
	}

	questionText, qok := question.(string)
	answerText, aok := answer.(string)
	if !qok || !aok {
		return nil, wrapError(CodeTypeMismatch,
			fmt.Errorf("expected string values for %q / %q, got %T / %T", m.InputKey, m.OutputKey, question, answer))
	}

	switch m.Format {
	case FormatSingleTurn:
		return Row{"question": questionText, "answer": answerText}, nil
	case FormatMessages:
		messages := make([]Message, 0, 3)
		if m.SystemPrompt != "" {
			messages = append(messages, Message{Role: RoleSystem, Content: m.SystemPrompt})
		}
		messages = append(messages,
			Message{Role: RoleUser, Content: questionText},
			Message{Role: RoleAssistant, Content: answerText},
		)
		return Row{"messages": messages}, nil
	}
	return nil, wrapError(CodeUnsupportedFormat, fmt.Errorf("unknown output format %q", m.Format))
}
