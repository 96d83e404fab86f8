package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"profmailgen/app/client/llm"
	"profmailgen/app/config"
	"profmailgen/app/storage"

	_ "embed"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/tmc/langchaingo/prompts"
)

//go:embed summary_prompt_template.txt
var summaryPromptTemplate string

const (
	// Summaries of zero or one messages carry no information, so the
	// generation capability is never called for them.
	minMessagesForSummary = 2

	maxSummarizeDuration = 30 * time.Second
)

type Service struct {
	completer llm.Completer
	prompt    prompts.PromptTemplate
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(llm.NewClient(cfg.OpenAI.Summary)), nil
}

func NewService(completer llm.Completer) *Service {
	return &Service{
		completer: completer,
		prompt: prompts.NewPromptTemplate(summaryPromptTemplate,
			[]string{"contact_name", "transcript"}),
	}
}

// Summarize renders the full ordered transcript into the instruction template
// and returns the generated digest. Given fewer than two messages it returns
// the empty string without touching the generation capability.
func (s *Service) Summarize(ctx context.Context, contactName string, messages []storage.Message) (string, error) {
	if len(messages) < minMessagesForSummary {
		return "", nil
	}

	prompt, err := s.prompt.Format(map[string]any{
		"contact_name": contactName,
		"transcript":   RenderTranscript(contactName, messages),
	})
	if err != nil {
		return "", fmt.Errorf("failed to format summary prompt: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, maxSummarizeDuration)
	defer cancel()

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completer.Complete: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RenderTranscript formats messages as "sender: content" pairs, labelling
// sent messages "You" and received ones with the contact's display name.
func RenderTranscript(contactName string, messages []storage.Message) string {
	lines := pie.Map(messages, func(msg storage.Message) string {
		return fmt.Sprintf("%s: %s", SenderLabel(msg.Direction, contactName), msg.Content)
	})

	return strings.Join(lines, "\n\n")
}

func SenderLabel(direction storage.Direction, contactName string) string {
	if direction == storage.DirectionSent {
		return "You"
	}

	return contactName
}
