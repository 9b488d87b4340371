package row_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nucleus/sft-convert/internal/dataset"
	"github.com/nucleus/sft-convert/internal/row"
)

func TestMapper_SingleTurnIdentity(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatSingleTurn, "")

	mapped, err := mapper.Map(dataset.Record{"question": "2+2?", "response": "4"})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if mapped["question"] != "2+2?" || mapped["answer"] != "4" {
		t.Fatalf("expected identity pair, got %v", mapped)
	}
}

func TestMapper_CustomKeys(t *testing.T) {
	mapper := row.NewMapper("prompt", "completion", row.FormatSingleTurn, "")

	mapped, err := mapper.Map(dataset.Record{"prompt": "q", "completion": "a", "extra": 7})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if mapped["question"] != "q" || mapped["answer"] != "a" {
		t.Fatalf("unexpected row: %v", mapped)
	}
}

func TestMapper_MessagesWithoutSystemPrompt(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatMessages, "")

	mapped, err := mapper.Map(dataset.Record{"question": "q", "response": "a"})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	messages, ok := mapped["messages"].([]row.Message)
	if !ok {
		t.Fatalf("expected message list, got %T", mapped["messages"])
	}
	want := []row.Message{
		{Role: row.RoleUser, Content: "q"},
		{Role: row.RoleAssistant, Content: "a"},
	}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("message %d: expected %v, got %v", i, want[i], messages[i])
		}
	}
}

func TestMapper_MessagesWithSystemPrompt(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatMessages, "You are terse.")

	mapped, err := mapper.Map(dataset.Record{"question": "2+2?", "response": "4"})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	messages := mapped["messages"].([]row.Message)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != row.RoleSystem || messages[0].Content != "You are terse." {
		t.Errorf("unexpected system message: %v", messages[0])
	}
	if messages[1].Role != row.RoleUser || messages[2].Role != row.RoleAssistant {
		t.Errorf("unexpected role order: %v", messages)
	}
}

func TestMapper_MissingFieldNamesKeys(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatSingleTurn, "")

	_, err := mapper.Map(dataset.Record{"question": "q", "other": "x", "another": "y"})
	if err == nil {
		t.Fatal("expected a missing field error")
	}
	var rerr *row.Error
	if !errors.As(err, &rerr) || rerr.Code != row.CodeMissingField {
		t.Fatalf("expected %s, got %v", row.CodeMissingField, err)
	}
	// The message names both designated fields and the sorted keys present.
	msg := err.Error()
	for _, want := range []string{`"question"`, `"response"`, "[another other question]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %s: %s", want, msg)
		}
	}
}

func TestMapper_NullFieldTreatedAsMissing(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatSingleTurn, "")

	_, err := mapper.Map(dataset.Record{"question": "q", "response": nil})
	if err == nil {
		t.Fatal("expected a missing field error for a null value")
	}
	var rerr *row.Error
	if !errors.As(err, &rerr) || rerr.Code != row.CodeMissingField {
		t.Fatalf("expected %s, got %v", row.CodeMissingField, err)
	}
}

func TestMapper_TypeMismatch(t *testing.T) {
	mapper := row.NewMapper("question", "response", row.FormatSingleTurn, "")

	_, err := mapper.Map(dataset.Record{"question": 42.0, "response": "a"})
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
	var rerr *row.Error
	if !errors.As(err, &rerr) || rerr.Code != row.CodeTypeMismatch {
		t.Fatalf("expected %s, got %v", row.CodeTypeMismatch, err)
	}
	if !strings.Contains(err.Error(), "float64") {
		t.Errorf("error should name the observed type: %v", err)
	}
}

func TestMapper_UnsupportedFormat(t *testing.T) {
	mapper := row.NewMapper("question", "response", "chatml", "")

	_, err := mapper.Map(dataset.Record{"question": "q", "response": "a"})
	if err == nil {
		t.Fatal("expected an unsupported format error")
	}
	var rerr *row.Error
	if !errors.As(err, &rerr) || rerr.Code != row.CodeUnsupportedFormat {
		t.Fatalf("expected %s, got %v", row.CodeUnsupportedFormat, err)
	}
	if !strings.Contains(err.Error(), "chatml") {
		t.Errorf("error should name the requested format: %v", err)
	}
}
