package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"profmailgen/app/apperr"
	"profmailgen/app/storage"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)

	if f.err != nil {
		return "", f.err
	}

	return f.response, nil
}

func messagesOf(pairs ...[2]string) []storage.Message {
	result := make([]storage.Message, 0, len(pairs))
	for i, pair := range pairs {
		result = append(result, storage.Message{
			Sequence:  int64(i + 1),
			Direction: storage.Direction(pair[0]),
			Content:   pair[1],
		})
	}

	return result
}

func TestSummarize_TooFewMessages(t *testing.T) {
	fake := &fakeCompleter{response: "should not be used"}
	svc := NewService(fake)
	ctx := context.Background()

	for _, messages := range [][]storage.Message{
		nil,
		messagesOf([2]string{"received", "hello"}),
	} {
		summary, err := svc.Summarize(ctx, "Alice", messages)
		if err != nil {
			t.Fatal(err)
		}
		if summary != "" {
			t.Errorf("expected empty summary, got %q", summary)
		}
	}

	if fake.calls != 0 {
		t.Errorf("expected no generation calls, got %d", fake.calls)
	}
}

func TestSummarize_RendersTranscript(t *testing.T) {
	fake := &fakeCompleter{response: "  They agreed to meet Tuesday at 3pm.  "}
	svc := NewService(fake)

	summary, err := svc.Summarize(context.Background(), "Alice", messagesOf(
		[2]string{"received", "Can we meet Tuesday?"},
		[2]string{"sent", "Yes, 3pm works."},
	))
	if err != nil {
		t.Fatal(err)
	}

	if summary != "They agreed to meet Tuesday at 3pm." {
		t.Errorf("expected trimmed summary, got %q", summary)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 generation call, got %d", fake.calls)
	}

	prompt := fake.prompts[0]
	for _, want := range []string{
		"Alice: Can we meet Tuesday?",
		"You: Yes, 3pm works.",
		"2-3 sentence summary",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSummarize_PropagatesGenerationFailure(t *testing.T) {
	fake := &fakeCompleter{err: fmt.Errorf("%w: quota exceeded", apperr.ErrGenerationFailed)}
	svc := NewService(fake)

	_, err := svc.Summarize(context.Background(), "Alice", messagesOf(
		[2]string{"received", "hello"},
		[2]string{"sent", "hi"},
	))
	if !errors.Is(err, apperr.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestSenderLabel(t *testing.T) {
	if got := SenderLabel(storage.DirectionSent, "Alice"); got != "You" {
		t.Errorf("expected You, got %q", got)
	}
	if got := SenderLabel(storage.DirectionReceived, "Alice"); got != "Alice" {
		t.Errorf("expected Alice, got %q", got)
	}
}
