package email

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CaptureSender records sends in memory so tests can assert on them.
type CaptureSender struct {
	mu   sync.Mutex
	Sent []SendRequest
	// Err, when set, is returned from every send.
	Err error
}

func NewCaptureSender() *CaptureSender {
	return &CaptureSender{}
}

func (s *CaptureSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return SendResult{}, s.Err
	}
	s.Sent = append(s.Sent, req)
	return SendResult{
		MessageID: fmt.Sprintf("capture-%d", len(s.Sent)),
		SentAt:    time.Now(),
	}, nil
}

func (s *CaptureSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	var results []SendResult
	for _, req := range reqs {
		res, err := s.Send(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
