package session

import (
	"context"

	"github.com/arloliu/go-instrument/profile"
)

// ExecuteOnNode executes cmd on a TSP-Link node.
func (s *Session) ExecuteOnNode(ctx context.Context, node int, cmd string) error {
	line := s.Profile().NodeExecuteCommand(node, cmd)
	if !profile.Supported(line) {
		return ErrNotSupported
	}

	return s.WriteLine(ctx, line)
}

// WaitNode waits until the pending operations of a TSP-Link node complete.
func (s *Session) WaitNode(ctx context.Context, node int) (bool, error) {
	line := s.Profile().NodeWaitCommand(node)
	if !profile.Supported(line) {
		return false, ErrNotSupported
	}

	if err := s.WriteLine(ctx, line); err != nil {
		return false, err
	}

	return s.QueryOperationCompleted(ctx)
}
