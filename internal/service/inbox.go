package service

import (
	"context"
	"fmt"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

// DefaultInboxLimit caps how many submissions the inbox shows.
const DefaultInboxLimit = 100

// Inbox is one render of the admin inbox.
type Inbox struct {
	Submissions []model.ContactSubmission
	Unread      int
}

// InboxService reads and manages contact submissions for the admin.
type InboxService struct {
	repo  ports.ContactRepository
	limit int
}

// NewInboxService constructs an InboxService.
func NewInboxService(repo ports.ContactRepository, limit int) *InboxService {
	if repo == nil {
		panic("ContactRepository is required")
	}
	if limit <= 0 {
		limit = DefaultInboxLimit
	}
	return &InboxService{repo: repo, limit: limit}
}

// Load returns the newest submissions and the unread count.
func (s *InboxService) Load(ctx context.Context) (*Inbox, error) {
	subs, err := s.repo.List(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unread submissions: %w", err)
	}
	return &Inbox{Submissions: subs, Unread: unread}, nil
}

// MarkRead flags a submission as read.
func (s *InboxService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

// Delete removes exactly one submission.
func (s *InboxService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
