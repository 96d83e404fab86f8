package engine

import (
	"context"
	"testing"
	"time"

	"profmailgen/app/config"
	"profmailgen/app/service/conversation"
	"profmailgen/app/service/queue"
	"profmailgen/app/service/summarizer"
	"profmailgen/app/storage"
)

type fakeCompleter struct {
	response string
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	return f.response, nil
}

func TestRun_RefreshesQueuedConversations(t *testing.T) {
	ctx := context.Background()

	store, err := storage.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Shutdown() })

	contact, err := store.CreateContact(ctx, "Alice", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	conv, err := store.CreateConversation(ctx, contact.ID, "Topic")
	if err != nil {
		t.Fatal(err)
	}

	if _, err = store.AppendMessage(ctx, conv.ID, "Can we meet Tuesday?", storage.DirectionReceived); err != nil {
		t.Fatal(err)
	}
	if _, err = store.AppendMessage(ctx, conv.ID, "Yes, 3pm works.", storage.DirectionSent); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Context: config.Context{RecentWindow: 5}}
	conversationSvc := conversation.NewService(cfg, store,
		summarizer.NewService(&fakeCompleter{response: "Meeting set for Tuesday 3pm."}))
	queueSvc := queue.NewService()

	done := make(chan error, 1)
	go func() {
		done <- NewService(conversationSvc, queueSvc).Run(ctx)
	}()

	queueSvc.Add(conv.ID)

	deadline := time.After(5 * time.Second)
	for {
		got, err := store.GetConversation(ctx, conv.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.ContextSummary != "" {
			break
		}

		select {
		case <-deadline:
			t.Fatal("summary was not refreshed in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Closing the queue stops the engine cleanly.
	if err = queueSvc.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err = <-done; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}
