package queue

import "testing"

func TestAddAndChannel(t *testing.T) {
	svc := NewService()

	svc.Add(1)
	svc.Add(2)

	if got := <-svc.Channel(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := <-svc.Channel(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestAdd_DropsWhenFull(t *testing.T) {
	svc := NewService()

	// One past capacity; Add must not block.
	for i := range bufferSize + 1 {
		svc.Add(int64(i))
	}

	if len(svc.queue) != bufferSize {
		t.Errorf("expected %d queued, got %d", bufferSize, len(svc.queue))
	}
}

func TestShutdown_ClosesChannel(t *testing.T) {
	svc := NewService()

	if err := svc.Shutdown(); err != nil {
		t.Fatal(err)
	}

	if _, ok := <-svc.Channel(); ok {
		t.Error("expected closed channel")
	}

	// Add after shutdown must not panic.
	svc.Add(1)
}
