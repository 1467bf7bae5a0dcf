// Package profile holds the two command language profiles, SCPI and TSP, that a session
// switches between.
//
// A Profile is a value: applying one replaces every command string and behavioral flag, so two
// dialects are never mixed. A command string that is empty means the operation is not supported
// by the dialect; callers skip such operations instead of failing.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-instrument/status"
)

// Profile is the complete set of commands and behavioral flags of one command language.
type Profile struct {
	Language Language

	// Common commands.
	ClearExecutionStateCommand             string
	ClearExecutionStateWaitCompleteCommand string
	ResetKnownStateCommand                 string
	ResetKnownStateWaitCompleteCommand     string
	IdentityQueryCommand                   string
	WaitCommand                            string
	OperationCompleteCommand               string
	OperationCompletedQueryCommand         string
	OperationCompletedReplyMessage         string
	CollectGarbageWaitCompleteCommand      string

	// Status registers. Format strings take integer arguments.
	ServiceRequestStatusQueryCommand           string
	ServiceRequestEnableCommandFormat          string
	ServiceRequestEnableQueryCommand           string
	StandardEventEnableCommandFormat           string
	StandardEventEnableQueryCommand            string
	StandardEventStatusQueryCommand            string
	StandardServiceEnableCommandFormat         string
	StandardServiceEnableCompleteCommandFormat string
	OperationEventEnableCommandFormat          string
	OperationEventEnableQueryCommand           string
	MeasurementEventEnableCommandFormat        string
	QuestionableEventEnableCommandFormat       string
	PresetStatusCommand                        string
	OperationEventConditionQueryCommand        string
	MeasurementEventConditionQueryCommand      string
	QuestionableEventConditionQueryCommand     string

	// Error queue, in order of preference for draining.
	NextErrorQueryCommand       string
	DequeueErrorQueryCommand    string
	DeviceErrorQueryCommand     string
	LastSystemErrorQueryCommand string
	ClearErrorQueueCommand      string
	ErrorQueueCountQueryCommand string
	NoErrorCompoundMessage      string

	// TSP node scoped commands. Formats take the node number, then the command.
	NodeExecuteCommandFormat string
	NodeWaitCommandFormat    string

	// SplitCommonCommands sends each ';' separated fragment of a command on its own.
	SplitCommonCommands bool
	// StatusClearDistractive is set when clearing the execution state also clears
	// the standard event and service request enable registers.
	StatusClearDistractive bool
	// ClearsDeviceStructures is set when clearing the execution state also flushes the error queue.
	ClearsDeviceStructures bool

	// Refractory periods waited after disruptive commands.
	DeviceClearRefractoryPeriod    time.Duration
	ResetRefractoryPeriod          time.Duration
	ClearRefractoryPeriod          time.Duration
	InterfaceClearRefractoryPeriod time.Duration

	// Bitmasks are the status byte masks armed by a reset.
	Bitmasks status.Bitmasks
}

// For returns a copy of the built-in profile of lang. An unknown language yields the SCPI profile.
func For(lang Language) Profile {
	switch lang {
	case Tsp:
		return tspProfile()
	default:
		return scpiProfile()
	}
}

// Supported reports whether a command is available in the active dialect.
func Supported(cmd string) bool {
	return cmd != ""
}

// SupportsClearWaitComplete reports whether clearing can wait on an operation-complete reply.
func (p Profile) SupportsClearWaitComplete() bool {
	return Supported(p.ClearExecutionStateWaitCompleteCommand) && Supported(p.OperationCompletedReplyMessage)
}

// SupportsResetWaitComplete reports whether resetting can wait on an operation-complete reply.
func (p Profile) SupportsResetWaitComplete() bool {
	return Supported(p.ResetKnownStateWaitCompleteCommand) && Supported(p.OperationCompletedReplyMessage)
}

// SupportsOperationCompletedQuery reports whether the operation-complete query is available.
func (p Profile) SupportsOperationCompletedQuery() bool {
	return Supported(p.OperationCompletedQueryCommand) && Supported(p.OperationCompletedReplyMessage)
}

// ErrorDequeueCommand returns the dequeue style command used to drain the error queue:
// the "next error" command when available, else the generic dequeue command.
func (p Profile) ErrorDequeueCommand() string {
	if Supported(p.NextErrorQueryCommand) {
		return p.NextErrorQueryCommand
	}

	return p.DequeueErrorQueryCommand
}

// SplitCommands splits cmd into the fragments that are sent separately.
//
// Without SplitCommonCommands, or when cmd has no ';', cmd is returned as is.
func (p Profile) SplitCommands(cmd string) []string {
	if !p.SplitCommonCommands || !strings.Contains(cmd, ";") {
		return []string{cmd}
	}

	parts := strings.Split(cmd, ";")
	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fragments = append(fragments, part)
		}
	}

	return fragments
}

// RefractoryPeriodFor returns the settle delay required after fragment, and whether the
// fragment is a reset or clear command that has one.
func (p Profile) RefractoryPeriodFor(fragment string) (time.Duration, bool) {
	fragment = strings.TrimSpace(fragment)
	switch {
	case fragment == "":
		return 0, false
	case strings.EqualFold(fragment, p.ResetKnownStateCommand):
		return p.ResetRefractoryPeriod, true
	case strings.EqualFold(fragment, p.ClearExecutionStateCommand):
		return p.ClearRefractoryPeriod, true
	default:
		return 0, false
	}
}

// IsOperationCompletedReply compares reply to the completion token, ignoring case and white space.
func (p Profile) IsOperationCompletedReply(reply string) bool {
	return Supported(p.OperationCompletedReplyMessage) &&
		strings.EqualFold(strings.TrimSpace(reply), p.OperationCompletedReplyMessage)
}

// ServiceRequestEnableCommand formats the service request enable command, or returns "" when unsupported.
func (p Profile) ServiceRequestEnableCommand(mask int) string {
	return format(p.ServiceRequestEnableCommandFormat, mask)
}

// StandardEventEnableCommand formats the standard event enable command, or returns "" when unsupported.
func (p Profile) StandardEventEnableCommand(mask int) string {
	return format(p.StandardEventEnableCommandFormat, mask)
}

// StandardServiceEnableCommand formats the combined standard event and service request enable command.
func (p Profile) StandardServiceEnableCommand(standardEventMask, serviceRequestMask int, complete bool) string {
	if complete {
		return format(p.StandardServiceEnableCompleteCommandFormat, standardEventMask, serviceRequestMask)
	}

	return format(p.StandardServiceEnableCommandFormat, standardEventMask, serviceRequestMask)
}

// OperationEventEnableCommand formats the operation event enable command.
func (p Profile) OperationEventEnableCommand(mask int) string {
	return format(p.OperationEventEnableCommandFormat, mask)
}

// NodeExecuteCommand wraps cmd to execute on a TSP-Link node.
func (p Profile) NodeExecuteCommand(node int, cmd string) string {
	if !Supported(p.NodeExecuteCommandFormat) {
		return ""
	}

	return fmt.Sprintf(p.NodeExecuteCommandFormat, node, cmd)
}

// NodeWaitCommand returns the command waiting for a TSP-Link node to complete.
func (p Profile) NodeWaitCommand(node int) string {
	return format(p.NodeWaitCommandFormat, node)
}

// Commands returns every command and format field by name, for inspection.
func (p Profile) Commands() map[string]string {
	return map[string]string{
		"ClearExecutionStateCommand":                 p.ClearExecutionStateCommand,
		"ClearExecutionStateWaitCompleteCommand":     p.ClearExecutionStateWaitCompleteCommand,
		"ResetKnownStateCommand":                     p.ResetKnownStateCommand,
		"ResetKnownStateWaitCompleteCommand":         p.ResetKnownStateWaitCompleteCommand,
		"IdentityQueryCommand":                       p.IdentityQueryCommand,
		"WaitCommand":                                p.WaitCommand,
		"OperationCompleteCommand":                   p.OperationCompleteCommand,
		"OperationCompletedQueryCommand":             p.OperationCompletedQueryCommand,
		"OperationCompletedReplyMessage":             p.OperationCompletedReplyMessage,
		"CollectGarbageWaitCompleteCommand":          p.CollectGarbageWaitCompleteCommand,
		"ServiceRequestStatusQueryCommand":           p.ServiceRequestStatusQueryCommand,
		"ServiceRequestEnableCommandFormat":          p.ServiceRequestEnableCommandFormat,
		"ServiceRequestEnableQueryCommand":           p.ServiceRequestEnableQueryCommand,
		"StandardEventEnableCommandFormat":           p.StandardEventEnableCommandFormat,
		"StandardEventEnableQueryCommand":            p.StandardEventEnableQueryCommand,
		"StandardEventStatusQueryCommand":            p.StandardEventStatusQueryCommand,
		"StandardServiceEnableCommandFormat":         p.StandardServiceEnableCommandFormat,
		"StandardServiceEnableCompleteCommandFormat": p.StandardServiceEnableCompleteCommandFormat,
		"OperationEventEnableCommandFormat":          p.OperationEventEnableCommandFormat,
		"OperationEventEnableQueryCommand":           p.OperationEventEnableQueryCommand,
		"MeasurementEventEnableCommandFormat":        p.MeasurementEventEnableCommandFormat,
		"QuestionableEventEnableCommandFormat":       p.QuestionableEventEnableCommandFormat,
		"PresetStatusCommand":                        p.PresetStatusCommand,
		"OperationEventConditionQueryCommand":        p.OperationEventConditionQueryCommand,
		"MeasurementEventConditionQueryCommand":      p.MeasurementEventConditionQueryCommand,
		"QuestionableEventConditionQueryCommand":     p.QuestionableEventConditionQueryCommand,
		"NextErrorQueryCommand":                      p.NextErrorQueryCommand,
		"DequeueErrorQueryCommand":                   p.DequeueErrorQueryCommand,
		"DeviceErrorQueryCommand":                    p.DeviceErrorQueryCommand,
		"LastSystemErrorQueryCommand":                p.LastSystemErrorQueryCommand,
		"ClearErrorQueueCommand":                     p.ClearErrorQueueCommand,
		"ErrorQueueCountQueryCommand":                p.ErrorQueueCountQueryCommand,
		"NoErrorCompoundMessage":                     p.NoErrorCompoundMessage,
		"NodeExecuteCommandFormat":                   p.NodeExecuteCommandFormat,
		"NodeWaitCommandFormat":                      p.NodeWaitCommandFormat,
	}
}

func format(f string, args ...any) string {
	if !Supported(f) {
		return ""
	}

	return fmt.Sprintf(f, args...)
}
