package session

import (
	"context"

	"github.com/arloliu/go-instrument/internal/pool"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/status"
)

func (s *Session) queryRegister(ctx context.Context, cmd string) (int, error) {
	if !profile.Supported(cmd) {
		return 0, ErrNotSupported
	}

	return s.QueryInt(ctx, cmd)
}

func (s *Session) writeRegister(ctx context.Context, cmd string) error {
	if !profile.Supported(cmd) {
		return ErrNotSupported
	}

	if err := s.WriteLine(ctx, cmd); err != nil {
		return err
	}

	return pool.Sleep(ctx, s.cfg.PostWriteDelay())
}

// QueryStandardEventEnableBitmask queries the standard event enable register.
func (s *Session) QueryStandardEventEnableBitmask(ctx context.Context) (int, error) {
	return s.queryRegister(ctx, s.Profile().StandardEventEnableQueryCommand)
}

// WriteStandardEventEnableBitmask programs the standard event enable register.
func (s *Session) WriteStandardEventEnableBitmask(ctx context.Context, mask int) error {
	return s.writeRegister(ctx, s.Profile().StandardEventEnableCommand(mask))
}

// QueryServiceRequestEnableBitmask queries the service request enable register.
func (s *Session) QueryServiceRequestEnableBitmask(ctx context.Context) (int, error) {
	return s.queryRegister(ctx, s.Profile().ServiceRequestEnableQueryCommand)
}

// WriteServiceRequestEnableBitmask programs the service request enable register.
func (s *Session) WriteServiceRequestEnableBitmask(ctx context.Context, mask int) error {
	return s.writeRegister(ctx, s.Profile().ServiceRequestEnableCommand(mask))
}

// QueryStandardEventStatus reads, and thereby clears, the standard event status register.
func (s *Session) QueryStandardEventStatus(ctx context.Context) (int, error) {
	return s.queryRegister(ctx, s.Profile().StandardEventStatusQueryCommand)
}

// QueryOperationEventEnableBitmask queries the operation event enable register.
func (s *Session) QueryOperationEventEnableBitmask(ctx context.Context) (int, error) {
	return s.queryRegister(ctx, s.Profile().OperationEventEnableQueryCommand)
}

// WriteOperationEventEnableBitmask programs the operation event enable register.
func (s *Session) WriteOperationEventEnableBitmask(ctx context.Context, mask int) error {
	return s.writeRegister(ctx, s.Profile().OperationEventEnableCommand(mask))
}

// QueryOperationEventCondition queries the operation event condition register.
func (s *Session) QueryOperationEventCondition(ctx context.Context) (int, error) {
	return s.queryRegister(ctx, s.Profile().OperationEventConditionQueryCommand)
}

// PresetStatus presets the enable and transition registers of the instrument.
func (s *Session) PresetStatus(ctx context.Context) error {
	return s.writeRegister(ctx, s.Profile().PresetStatusCommand)
}

// EnableServiceRequestEvents programs the standard event and service request enable registers with
// the composite masks of the status register. With complete set, the operation complete command
// is appended so that completion raises a service request.
func (s *Session) EnableServiceRequestEvents(ctx context.Context, complete bool) error {
	b := s.register.Bitmasks()
	cmd := s.Profile().StandardServiceEnableCommand(b.StandardEventEnable(), b.ServiceRequestEnableEvents(), complete)
	if complete && profile.Supported(cmd) {
		s.setCompletion(CompletionIncomplete)
	}

	return s.writeRegister(ctx, cmd)
}

// SetBitmask assigns the mask decoding category c from the status byte.
// Values with more than one bit set are rejected with status.ErrInvalidBitmask.
func (s *Session) SetBitmask(c status.Category, mask int) error {
	return s.register.SetBitmask(c, mask)
}
