package transport

import (
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"
)

// Interface types of the built-in transports.
const (
	InterfaceTCPIP = "TCPIP"
	InterfaceASRL  = "ASRL"
)

// Resource classes.
const (
	ClassSocket = "SOCKET"
	ClassInstr  = "INSTR"
)

// Resource is a parsed resource name.
type Resource struct {
	// Name is the resource name as given.
	Name string
	// Interface is the upper case interface type, e.g. "TCPIP".
	Interface string
	// Board is the interface board number, 0 when omitted.
	Board int
	// Host and Port address a TCPIP socket resource.
	Host string
	Port int
	// Path is the serial device of an ASRL resource.
	Path string
	// Class is the upper case resource class, e.g. "SOCKET".
	Class string
}

// Address returns the dial address of a socket resource, or the device path of a serial resource.
func (r Resource) Address() string {
	if r.Interface == InterfaceTCPIP {
		return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
	}

	return r.Path
}

// ParseResourceName parses a resource name of one of the forms
//
//	TCPIP[board]::host::port::SOCKET
//	ASRL[board][::INSTR]
//	ASRL::path[::INSTR]
//
// Interface types and classes are case-insensitive. Other interface types are accepted
// as long as a factory is registered for them; their fields after the interface are kept
// in Path joined by "::".
func ParseResourceName(name string) (Resource, error) {
	parts := strings.Split(strings.TrimSpace(name), "::")
	if len(parts) == 0 || parts[0] == "" {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, name)
	}

	iface, board, err := splitInterface(parts[0])
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, name)
	}

	res := Resource{Name: name, Interface: iface, Board: board}
	fields := parts[1:]

	switch iface {
	case InterfaceTCPIP:
		return parseSocket(res, fields)
	case InterfaceASRL:
		return parseSerial(res, parts[0], fields)
	default:
		if len(fields) > 0 && isClass(fields[len(fields)-1]) {
			res.Class = strings.ToUpper(fields[len(fields)-1])
			fields = fields[:len(fields)-1]
		}
		res.Path = strings.Join(fields, "::")

		return res, nil
	}
}

func parseSocket(res Resource, fields []string) (Resource, error) {
	if len(fields) != 3 || !strings.EqualFold(fields[2], ClassSocket) {
		return res, fmt.Errorf("%w: %q: expected TCPIP[board]::host::port::SOCKET", ErrUnsupportedResource, res.Name)
	}

	host := strings.TrimSpace(fields[0])
	if host == "" {
		return res, fmt.Errorf("%w: %q: empty host", ErrInvalidResource, res.Name)
	}

	port, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || port < 1 || port > 65535 {
		return res, fmt.Errorf("%w: %q: port is out of range [1, 65535]", ErrInvalidResource, res.Name)
	}

	res.Host = host
	res.Port = port
	res.Class = ClassSocket

	return res, nil
}

func parseSerial(res Resource, head string, fields []string) (Resource, error) {
	if n := len(fields); n > 0 && strings.EqualFold(fields[n-1], ClassInstr) {
		fields = fields[:n-1]
	}
	res.Class = ClassInstr

	switch len(fields) {
	case 0:
		if len(head) == len(InterfaceASRL) {
			return res, fmt.Errorf("%w: %q: missing port number or path", ErrInvalidResource, res.Name)
		}
		res.Path = serialPortPath(res.Board)
	case 1:
		if fields[0] == "" {
			return res, fmt.Errorf("%w: %q: empty path", ErrInvalidResource, res.Name)
		}
		res.Path = fields[0]
	default:
		return res, fmt.Errorf("%w: %q", ErrInvalidResource, res.Name)
	}

	return res, nil
}

// splitInterface splits "TCPIP0" into "TCPIP" and 0.
func splitInterface(s string) (string, int, error) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return "", 0, ErrInvalidResource
	}

	board := 0
	if i < len(s) {
		n, err := strconv.Atoi(s[i:])
		if err != nil {
			return "", 0, err
		}
		board = n
	}

	return strings.ToUpper(s[:i]), board, nil
}

func isClass(s string) bool {
	switch strings.ToUpper(s) {
	case ClassSocket, ClassInstr, "RAW", "BACKPLANE", "MEMACC", "SERVANT", "INTFC":
		return true
	default:
		return false
	}
}

// serialPortPath maps a VISA serial board number to the device name of the host OS.
// Board numbers start at 1.
func serialPortPath(board int) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("COM%d", board)
	}

	n := board - 1
	if n < 0 {
		n = 0
	}

	return fmt.Sprintf("/dev/ttyS%d", n)
}
