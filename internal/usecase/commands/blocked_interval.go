package commands

import (
	"context"
	"time"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrBlockedIntervalNotFound = errs.New("blocked interval not found")

type CreateBlockedIntervalRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}

type CreateBlockedIntervalResult struct {
	BlockedIntervalID uuid.UUID
}

// BlockedIntervalCommands manages calendar closures. Blocks may overlap
// existing appointments: booking a new slot inside a block is refused, but
// already-booked appointments stay untouched for the admin to handle.
type BlockedIntervalCommands interface {
	Create(ctx context.Context, req CreateBlockedIntervalRequest, actor Actor) (*CreateBlockedIntervalResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockedIntervalUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewBlockedIntervalUseCase(uow shared.UnitOfWork) BlockedIntervalCommands {
	return &blockedIntervalUseCaseImpl{uow: uow}
}

func (uc *blockedIntervalUseCaseImpl) Create(ctx context.Context, req CreateBlockedIntervalRequest, actor Actor) (*CreateBlockedIntervalResult, error) {
	blocked, err := schedule.NewBlockedInterval(req.StartTime, req.EndTime, req.Reason, actor.ID)
	if err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.BlockedIntervals().Create(ctx, tx.DB(), blocked)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateBlockedIntervalResult{BlockedIntervalID: createdID}, nil
}

func (uc *blockedIntervalUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if derr := tx.BlockedIntervals().Delete(ctx, tx.DB(), id); derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBlockedIntervalNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
