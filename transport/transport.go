package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Transport is a message based link to one instrument.
//
// Implementations are not safe for concurrent use; the owning session serializes every call.
type Transport interface {
	// ResourceName returns the resource name the transport was opened with.
	ResourceName() string
	// WriteLine writes text followed by the termination character and returns the text sent.
	WriteLine(ctx context.Context, text string) (string, error)
	// ReadLine reads up to the termination character and returns the text without it.
	ReadLine(ctx context.Context) (string, error)
	// ReadStatusByte samples the instrument status byte.
	ReadStatusByte(ctx context.Context) (int, error)
	// DiscardAllEvents drops pending input and any queued events.
	DiscardAllEvents() error
	// Timeout returns the communication timeout.
	Timeout() time.Duration
	// SetTimeout changes the communication timeout.
	SetTimeout(d time.Duration)
	// Close releases the link. Close is idempotent.
	Close() error
}

// DeviceClearer is implemented by transports able to send a device clear to the instrument.
type DeviceClearer interface {
	DeviceClear(ctx context.Context) error
}

// StatusQueryConfigurer is implemented by transports that sample the status byte with a query.
type StatusQueryConfigurer interface {
	StatusQuery() string
	SetStatusQuery(cmd string)
}

// Factory opens a transport for a parsed resource.
type Factory func(ctx context.Context, res Resource, cfg *Config) (Transport, error)

var factories = xsync.NewMapOf[string, Factory]()

func init() {
	Register(InterfaceTCPIP, openSocket)
	Register(InterfaceASRL, openSerial)
}

// Register installs the factory for an interface type, e.g. "TCPIP", replacing any previous one.
func Register(iface string, f Factory) {
	if f == nil {
		factories.Delete(strings.ToUpper(iface))
		return
	}

	factories.Store(strings.ToUpper(iface), f)
}

// Registered reports whether a factory exists for the interface type.
func Registered(iface string) bool {
	_, ok := factories.Load(strings.ToUpper(iface))
	return ok
}

// Open parses resource, applies opts on top of the defaults and opens the transport with the
// factory registered for the resource interface type. A non-positive timeout keeps the default.
func Open(ctx context.Context, resource string, timeout time.Duration, opts ...Option) (Transport, error) {
	res, err := ParseResourceName(resource)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		opts = append([]Option{WithTimeout(timeout)}, opts...)
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	f, ok := factories.Load(res.Interface)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedResource, resource)
	}

	return f(ctx, res, cfg)
}
