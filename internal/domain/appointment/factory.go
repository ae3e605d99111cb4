package appointment

import (
	"time"

	"counseling-portal/internal/domain/service"
	"counseling-portal/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock  clock.Clock
	Window BookingWindow
}

func NewFactory(clk clock.Clock, window BookingWindow) *Factory {
	return &Factory{
		Clock:  clk,
		Window: window,
	}
}

// CreateAppointment books a pending appointment for the given service,
// enforcing the advance-notice window. Conflict checking happens in the
// transaction that persists the result, not here.
func (f *Factory) CreateAppointment(
	svc *service.Service,
	clientID uuid.UUID,
	dateTime time.Time,
	clientNotes *string,
) (*Appointment, error) {
	if err := f.Window.Validate(dateTime, f.Clock.Now()); err != nil {
		return nil, err
	}
	return NewAppointment(svc.ID(), clientID, dateTime, svc.DurationMinutes(), clientNotes)
}
