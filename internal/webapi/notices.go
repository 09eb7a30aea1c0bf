package webapi

import (
	"sync"

	"github.com/fpang/studio-lens/internal/studio"
	"github.com/rs/zerolog/log"
)

// DefaultNoticeLimit bounds the notice board.
const DefaultNoticeLimit = 50

// NoticeBoard keeps recent preview failure notices until a client drains
// them. When full, the oldest notice is dropped.
type NoticeBoard struct {
	mu      sync.Mutex
	limit   int
	notices []studio.Notice
}

// NewNoticeBoard creates a board holding at most limit notices.
func NewNoticeBoard(limit int) *NoticeBoard {
	if limit <= 0 {
		limit = DefaultNoticeLimit
	}
	return &NoticeBoard{limit: limit}
}

// Notify implements studio.Notifier.
func (b *NoticeBoard) Notify(n studio.Notice) {
	log.Warn().Str("shot_id", n.ShotID).Str("kind", n.Kind).Msg(n.Message)

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) >= b.limit {
		b.notices = b.notices[1:]
	}
	b.notices = append(b.notices, n)
}

// Drain returns and clears all pending notices, oldest first.
func (b *NoticeBoard) Drain() []studio.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []studio.Notice{}
	}
	return out
}
