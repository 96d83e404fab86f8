package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"profmailgen/app/apperr"
)

func seedConversation(t *testing.T, store *Store) *Conversation {
	t.Helper()
	ctx := context.Background()

	contact, err := store.CreateContact(ctx, "Alice", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	conv, err := store.CreateConversation(ctx, contact.ID, "Topic")
	if err != nil {
		t.Fatal(err)
	}

	return conv
}

func TestAppendMessage_SequencesStartAtOne(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	for i, want := range []int64{1, 2, 3} {
		msg, err := store.AppendMessage(ctx, conv.ID, "message", DirectionReceived)
		if err != nil {
			t.Fatal(err)
		}
		if msg.Sequence != want {
			t.Errorf("append %d: expected sequence %d, got %d", i, want, msg.Sequence)
		}
	}
}

func TestAppendMessage_EmptyContent(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	_, err := store.AppendMessage(ctx, conv.ID, "", DirectionSent)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// No row created and no sequence consumed.
	messages, err := store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(messages))
	}

	msg, err := store.AppendMessage(ctx, conv.ID, "hi", DirectionSent)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", msg.Sequence)
	}
}

func TestAppendMessage_BadDirection(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)

	_, err := store.AppendMessage(context.Background(), conv.ID, "hi", Direction("forwarded"))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	store := testStore(t)

	_, err := store.AppendMessage(context.Background(), 999, "hi", DirectionSent)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendMessage_Concurrent(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	const workers = 30

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		sequences = map[int64]bool{}
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			msg, err := store.AppendMessage(ctx, conv.ID, "concurrent", DirectionReceived)
			if err != nil {
				t.Error(err)
				return
			}

			mu.Lock()
			defer mu.Unlock()

			if sequences[msg.Sequence] {
				t.Errorf("duplicate sequence %d", msg.Sequence)
			}
			sequences[msg.Sequence] = true
		}()
	}

	wg.Wait()

	for seq := int64(1); seq <= workers; seq++ {
		if !sequences[seq] {
			t.Errorf("missing sequence %d", seq)
		}
	}
}

func TestListMessages_OrderedBySequence(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		if _, err := store.AppendMessage(ctx, conv.ID, content, DirectionSent); err != nil {
			t.Fatal(err)
		}
	}

	messages, err := store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(messages))
	}
	for i, content := range contents {
		if messages[i].Content != content {
			t.Errorf("position %d: expected %q, got %q", i, content, messages[i].Content)
		}
		if messages[i].Sequence != int64(i+1) {
			t.Errorf("position %d: expected sequence %d, got %d", i, i+1, messages[i].Sequence)
		}
	}
}

func TestListMessages_UnknownConversation(t *testing.T) {
	store := testStore(t)

	_, err := store.ListMessages(context.Background(), 999)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendMessage_BumpsUpdatedAt(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	// Push updated_at into the past so the bump is observable with
	// second-resolution timestamps.
	if _, err := store.db.Exec(`UPDATE conversations SET updated_at = 0 WHERE id = ?`, conv.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := store.AppendMessage(ctx, conv.ID, "hi", DirectionReceived); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.UpdatedAt.Unix() == 0 {
		t.Error("expected updated_at to be bumped")
	}
}

func TestSequencer_Next(t *testing.T) {
	store := testStore(t)
	conv := seedConversation(t, store)
	ctx := context.Background()

	next, err := store.Sequencer().Next(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if next != 1 {
		t.Errorf("expected 1 for empty conversation, got %d", next)
	}

	if _, err = store.AppendMessage(ctx, conv.ID, "hi", DirectionSent); err != nil {
		t.Fatal(err)
	}

	next, err = store.Sequencer().Next(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Errorf("expected 2 after one message, got %d", next)
	}
}
