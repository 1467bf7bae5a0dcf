package status

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-instrument/internal/util"
)

// ErrInvalidBitmask indicates a single-bit category mask with more than one bit set.
var ErrInvalidBitmask = errors.New("status: category bitmask must have at most one bit set")

// Category identifies one signal line of the status byte.
type Category int

const (
	// CategoryMeasurement is the measurement event summary bit (MSB).
	CategoryMeasurement Category = iota
	// CategorySystem is the system event summary bit (SSB).
	CategorySystem
	// CategoryError is the error available bit (EAV).
	CategoryError
	// CategoryQuestionable is the questionable event summary bit (QSB).
	CategoryQuestionable
	// CategoryMessage is the message available bit (MAV).
	CategoryMessage
	// CategoryStandardEvent is the standard event summary bit (ESB).
	CategoryStandardEvent
	// CategoryRequestingService is the request-for-service / master summary bit (RQS/MSS).
	CategoryRequestingService
	// CategoryOperationEvent is the operation event summary bit (OSB).
	CategoryOperationEvent

	numCategories
)

var categoryNames = [numCategories]string{
	CategoryMeasurement:       "measurement",
	CategorySystem:            "system",
	CategoryError:             "error",
	CategoryQuestionable:      "questionable",
	CategoryMessage:           "message",
	CategoryStandardEvent:     "standard-event",
	CategoryRequestingService: "requesting-service",
	CategoryOperationEvent:    "operation-event",
}

// String returns the category name.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}

	return categoryNames[c]
}

// Categories returns all categories in bit order of the default layout.
func Categories() []Category {
	cats := make([]Category, numCategories)
	for i := range cats {
		cats[i] = Category(i)
	}

	return cats
}

// Default IEEE-488.2 status byte layout (Keithley naming).
const (
	MeasurementEventBit  = 0x01
	SystemEventBit       = 0x02
	ErrorAvailableBit    = 0x04
	QuestionableEventBit = 0x08
	MessageAvailableBit  = 0x10
	StandardEventBit     = 0x20
	RequestingServiceBit = 0x40
	OperationEventBit    = 0x80
)

// StandardEvent bits of the standard event status register (*ESR?, *ESE).
type StandardEvent int

const (
	OperationComplete    StandardEvent = 0x01
	RequestControl       StandardEvent = 0x02
	QueryError           StandardEvent = 0x04
	DeviceDependentError StandardEvent = 0x08
	ExecutionError       StandardEvent = 0x10
	CommandError         StandardEvent = 0x20
	UserRequest          StandardEvent = 0x40
	PowerToggled         StandardEvent = 0x80

	// AllStandardEvents enables every standard event.
	AllStandardEvents StandardEvent = 0xFF
	// StandardErrorEvents are the events raised by command, execution, device and query errors.
	StandardErrorEvents = QueryError | DeviceDependentError | ExecutionError | CommandError
)

// Bitmasks holds the per-instrument masks that decode a status byte.
//
// Category masks are single-bit; the composite masks may hold several bits.
// The zero value decodes nothing; use DefaultBitmasks for the standard layout.
type Bitmasks struct {
	categories [numCategories]int

	serviceRequestEnableEvents int
	standardEventEnable        int
	busy                       int
}

// DefaultBitmasks returns the IEEE-488.2 layout with service requests enabled for
// every summary bit except message available and the operation-complete event enabled.
func DefaultBitmasks() Bitmasks {
	b := Bitmasks{}
	b.categories[CategoryMeasurement] = MeasurementEventBit
	b.categories[CategorySystem] = SystemEventBit
	b.categories[CategoryError] = ErrorAvailableBit
	b.categories[CategoryQuestionable] = QuestionableEventBit
	b.categories[CategoryMessage] = MessageAvailableBit
	b.categories[CategoryStandardEvent] = StandardEventBit
	b.categories[CategoryRequestingService] = RequestingServiceBit
	b.categories[CategoryOperationEvent] = OperationEventBit

	b.serviceRequestEnableEvents = MeasurementEventBit | SystemEventBit | ErrorAvailableBit |
		QuestionableEventBit | StandardEventBit | OperationEventBit
	b.standardEventEnable = int(OperationComplete | StandardErrorEvents)
	b.busy = OperationEventBit

	return b
}

// Mask returns the mask of category c, zero for an unknown category.
func (b Bitmasks) Mask(c Category) int {
	if c < 0 || c >= numCategories {
		return 0
	}

	return b.categories[c]
}

// Set assigns the mask of category c. A mask with more than one bit set is rejected.
func (b *Bitmasks) Set(c Category, mask int) error {
	if c < 0 || c >= numCategories {
		return fmt.Errorf("status: unknown category %d", c)
	}
	if util.PopCount(mask) > 1 {
		return fmt.Errorf("%w: %s=0x%X", ErrInvalidBitmask, c, mask)
	}
	b.categories[c] = mask

	return nil
}

// ServiceRequestEnableEvents returns the composite service request enable mask.
func (b Bitmasks) ServiceRequestEnableEvents() int { return b.serviceRequestEnableEvents }

// SetServiceRequestEnableEvents assigns the composite service request enable mask.
func (b *Bitmasks) SetServiceRequestEnableEvents(mask int) { b.serviceRequestEnableEvents = mask }

// StandardEventEnable returns the composite standard event enable mask.
func (b Bitmasks) StandardEventEnable() int { return b.standardEventEnable }

// SetStandardEventEnable assigns the composite standard event enable mask.
func (b *Bitmasks) SetStandardEventEnable(mask int) { b.standardEventEnable = mask }

// Busy returns the composite mask whose bits signal that the instrument is busy.
func (b Bitmasks) Busy() int { return b.busy }

// SetBusy assigns the composite busy mask.
func (b *Bitmasks) SetBusy(mask int) { b.busy = mask }

// Decode reports whether category c is signalled by stb.
//
// The message category requires every bit of its mask to be set; all other categories
// match on any bit. A zero mask never matches.
func (b Bitmasks) Decode(c Category, stb int) bool {
	mask := b.Mask(c)
	if mask == 0 {
		return false
	}
	if c == CategoryMessage {
		return stb&mask == mask
	}

	return stb&mask != 0
}
