package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"
	"github.com/Franklimello/lajinhaStore-sub002/internal/repository"
)

const (
	archiveQueueSize = 1000
	archiveWorkers   = 4
)

// ArchiveService copies appended messages into Postgres off the hot path.
// The relay never reads the archive; the in-memory ledger stays the source
// of truth and is still lost on restart. A full queue drops rather than
// blocking a message send.
type ArchiveService struct {
	repo  *repository.MessageArchiveRepository
	queue chan model.ArchivedMessage

	mu     sync.Mutex
	closed bool
}

func NewArchiveService(repo *repository.MessageArchiveRepository) *ArchiveService {
	s := &ArchiveService{
		repo:  repo,
		queue: make(chan model.ArchivedMessage, archiveQueueSize),
	}
	for i := 0; i < archiveWorkers; i++ {
		go s.worker()
	}
	return s
}

func (s *ArchiveService) worker() {
	for msg := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, msg); err != nil {
			log.Printf("[archive] insert failed: %v", err)
		}
		cancel()
	}
}

// Enqueue hands a message to the archive workers without blocking.
// Messages arriving after Close are dropped.
func (s *ArchiveService) Enqueue(msg model.ArchivedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- msg:
	default:
		log.Printf("[archive] queue full, dropping message %s", msg.MessageID)
	}
}

// RunRetention prunes old rows once a day until ctx is cancelled.
func (s *ArchiveService) RunRetention(ctx context.Context, keepDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.repo.DeleteOlderThan(ctx, keepDays)
			if err != nil {
				log.Printf("[archive] retention failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("[archive] pruned %d archived messages", deleted)
			}
		}
	}
}

// Close stops the workers after the queue drains. Safe to call once the
// relay may still be handing off late messages.
func (s *ArchiveService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}
