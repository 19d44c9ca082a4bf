package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("короткое сообщение", MaxMessageLen)
	if len(parts) != 1 || parts[0] != "короткое сообщение" {
		t.Fatalf("parts = %v", parts)
	}
}

func TestSplitMessageAtNewlines(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString(strings.Repeat("x", 50))
		sb.WriteString("\n")
	}
	text := sb.String()

	parts := SplitMessage(text, 200)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	for i, part := range parts {
		if utf8.RuneCountInString(part) > 200 {
			t.Errorf("part %d exceeds the limit: %d runes", i, utf8.RuneCountInString(part))
		}
	}
	if strings.Join(parts, "") != text {
		t.Error("split lost content")
	}
	// Prefers a newline boundary when one is in the back half of the chunk.
	if !strings.HasSuffix(parts[0], "\n") {
		t.Errorf("first part should end at a newline, got %q tail", parts[0][len(parts[0])-5:])
	}
}

func TestSplitMessageNoNewlines(t *testing.T) {
	text := strings.Repeat("я", 500)
	parts := SplitMessage(text, 200)
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(parts))
	}
	if strings.Join(parts, "") != text {
		t.Error("split lost content")
	}
}
