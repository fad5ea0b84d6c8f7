package service

import (
	"testing"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"
)

func TestArchiveEnqueueAfterCloseIsSafe(t *testing.T) {
	svc := NewArchiveService(nil)
	svc.Close()
	svc.Close() // repeated close is a no-op

	// A message-send racing shutdown can still hand off; it must be
	// dropped, not panic on the closed queue.
	svc.Enqueue(model.ArchivedMessage{MessageID: "m1", CustomerID: "ana-id", Text: "oi"})
}
