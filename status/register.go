package status

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Property is a boolean derived from the cached status byte.
type Property int

const (
	ErrorAvailable Property = iota
	MessageAvailable
	HasMeasurementEvent
	HasSystemEvent
	HasQuestionableEvent
	HasStandardEvent
	RequestedService
	HasOperationEvent

	numProperties
)

var propertyCategories = [numProperties]Category{
	ErrorAvailable:       CategoryError,
	MessageAvailable:     CategoryMessage,
	HasMeasurementEvent:  CategoryMeasurement,
	HasSystemEvent:       CategorySystem,
	HasQuestionableEvent: CategoryQuestionable,
	HasStandardEvent:     CategoryStandardEvent,
	RequestedService:     CategoryRequestingService,
	HasOperationEvent:    CategoryOperationEvent,
}

var propertyNames = [numProperties]string{
	ErrorAvailable:       "ErrorAvailable",
	MessageAvailable:     "MessageAvailable",
	HasMeasurementEvent:  "HasMeasurementEvent",
	HasSystemEvent:       "HasSystemEvent",
	HasQuestionableEvent: "HasQuestionableEvent",
	HasStandardEvent:     "HasStandardEvent",
	RequestedService:     "RequestedService",
	HasOperationEvent:    "HasOperationEvent",
}

// String returns the property name.
func (p Property) String() string {
	if p < 0 || p >= numProperties {
		return "Unknown"
	}

	return propertyNames[p]
}

// Category returns the status byte category the property is decoded from.
func (p Property) Category() Category {
	if p < 0 || p >= numProperties {
		return numCategories
	}

	return propertyCategories[p]
}

// Properties returns every derived property in notification order.
func Properties() []Property {
	props := make([]Property, numProperties)
	for i := range props {
		props[i] = Property(i)
	}

	return props
}

// PropertyChangeHandler is invoked for a property each time a status byte is applied.
//
// Note: handlers are invoked in a blocking mode, on the caller's flow of control.
type PropertyChangeHandler func(prop Property, value bool)

// DeviceErrorHandler is invoked after an applied status byte triggered an error drain that
// produced a report.
type DeviceErrorHandler func(report string)

// ErrorDrainer drains the instrument error queue for the given status byte and returns the report,
// or an empty string when nothing was drained.
type ErrorDrainer func(ctx context.Context, stb int) string

// Register owns the cached status byte and the masks that decode it.
//
// Apply is the single entry point that updates the cache. Handlers run outside the internal lock,
// so a drainer may sample and apply nested status bytes.
type Register struct {
	mu       sync.RWMutex
	stb      int
	bitmasks Bitmasks
	drainer  ErrorDrainer

	propHandlers *xsync.MapOf[Property, []PropertyChangeHandler]
	errHandlers  []DeviceErrorHandler
	handlerMu    sync.RWMutex
}

// NewRegister creates a Register decoding with bitmasks.
func NewRegister(bitmasks Bitmasks) *Register {
	return &Register{
		bitmasks:     bitmasks,
		propHandlers: xsync.NewMapOf[Property, []PropertyChangeHandler](),
	}
}

// ServiceRequestStatus returns the most recently applied status byte.
func (r *Register) ServiceRequestStatus() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.stb
}

// Bitmasks returns a copy of the active masks.
func (r *Register) Bitmasks() Bitmasks {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.bitmasks
}

// SetBitmask assigns the mask of a single category, rejecting multi-bit values.
func (r *Register) SetBitmask(c Category, mask int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bitmasks.Set(c, mask)
}

// ResetBitmasks replaces every mask.
func (r *Register) ResetBitmasks(b Bitmasks) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bitmasks = b
}

// Decode decodes category c from stb with the active masks.
func (r *Register) Decode(c Category, stb int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.bitmasks.Decode(c, stb)
}

// Get returns property p decoded from the cached status byte.
func (r *Register) Get(p Property) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.bitmasks.Decode(p.Category(), r.stb)
}

// ErrorAvailable reports whether the cached status byte signals queued errors.
func (r *Register) ErrorAvailable() bool { return r.Get(ErrorAvailable) }

// MessageAvailable reports whether the cached status byte signals a pending message.
func (r *Register) MessageAvailable() bool { return r.Get(MessageAvailable) }

// HasMeasurementEvent reports the measurement event summary of the cached status byte.
func (r *Register) HasMeasurementEvent() bool { return r.Get(HasMeasurementEvent) }

// HasSystemEvent reports the system event summary of the cached status byte.
func (r *Register) HasSystemEvent() bool { return r.Get(HasSystemEvent) }

// HasQuestionableEvent reports the questionable event summary of the cached status byte.
func (r *Register) HasQuestionableEvent() bool { return r.Get(HasQuestionableEvent) }

// HasStandardEvent reports the standard event summary of the cached status byte.
func (r *Register) HasStandardEvent() bool { return r.Get(HasStandardEvent) }

// RequestedService reports the request-for-service bit of the cached status byte.
func (r *Register) RequestedService() bool { return r.Get(RequestedService) }

// HasOperationEvent reports the operation event summary of the cached status byte.
func (r *Register) HasOperationEvent() bool { return r.Get(HasOperationEvent) }

// SetErrorDrainer installs the function Apply calls when errors are pending and no message is.
func (r *Register) SetErrorDrainer(d ErrorDrainer) {
	r.handlerMu.Lock()
	defer r.handlerMu.Unlock()

	r.drainer = d
}

// AddPropertyHandler registers handlers for property p.
func (r *Register) AddPropertyHandler(p Property, handlers ...PropertyChangeHandler) {
	r.propHandlers.Compute(p, func(old []PropertyChangeHandler, _ bool) ([]PropertyChangeHandler, bool) {
		merged := make([]PropertyChangeHandler, 0, len(old)+len(handlers))
		merged = append(merged, old...)
		merged = append(merged, handlers...)

		return merged, false
	})
}

// AddDeviceErrorHandler registers handlers invoked when an applied status byte produced a device error report.
func (r *Register) AddDeviceErrorHandler(handlers ...DeviceErrorHandler) {
	r.handlerMu.Lock()
	defer r.handlerMu.Unlock()

	r.errHandlers = append(r.errHandlers, handlers...)
}

// Apply stores stb as the cached status, notifies every property handler and, when errors are
// pending without a pending message, drains the error queue.
//
// Every sample is treated as new information: handlers are notified even when stb equals the
// previous sample. Apply returns the drain report, or an empty string when no drain ran or it
// produced nothing.
func (r *Register) Apply(ctx context.Context, stb int) string {
	r.mu.Lock()
	r.stb = stb
	masks := r.bitmasks
	r.mu.Unlock()

	for _, p := range Properties() {
		handlers, ok := r.propHandlers.Load(p)
		if !ok {
			continue
		}
		value := masks.Decode(p.Category(), stb)
		for _, h := range handlers {
			if h != nil {
				h(p, value)
			}
		}
	}

	if !masks.Decode(CategoryError, stb) || masks.Decode(CategoryMessage, stb) {
		return ""
	}

	r.handlerMu.RLock()
	drainer := r.drainer
	errHandlers := r.errHandlers
	r.handlerMu.RUnlock()

	if drainer == nil {
		return ""
	}

	report := drainer(ctx, stb)
	if report == "" {
		return ""
	}

	for _, h := range errHandlers {
		if h != nil {
			h(report)
		}
	}

	return report
}
