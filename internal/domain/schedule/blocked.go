package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyBlockReason = errors.New("block reason cannot be empty")

// BlockedInterval is an admin-defined closure of the calendar, e.g. holidays
// or personal time. Slots overlapping one are never offered.
type BlockedInterval struct {
	id        uuid.UUID
	interval  Interval
	reason    string
	createdBy uuid.UUID
}

func NewBlockedInterval(start, end time.Time, reason string, createdBy uuid.UUID) (*BlockedInterval, error) {
	iv, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyBlockReason
	}
	return &BlockedInterval{
		id:        uuid.New(),
		interval:  iv,
		reason:    reason,
		createdBy: createdBy,
	}, nil
}

func (b *BlockedInterval) ID() uuid.UUID        { return b.id }
func (b *BlockedInterval) Interval() Interval   { return b.interval }
func (b *BlockedInterval) Reason() string       { return b.reason }
func (b *BlockedInterval) CreatedBy() uuid.UUID { return b.createdBy }
