package request

import (
	"strings"
	"time"
)

type CreateBlockedIntervalRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason" binding:"required,max=500"`
}

func (r CreateBlockedIntervalRequest) GetReason() string {
	return strings.TrimSpace(r.Reason)
}
