package session

// Completion is the outcome of the most recent operation-complete handshake.
type Completion int32

const (
	// CompletionUnknown means no handshake ran since the session opened or the profile changed.
	CompletionUnknown Completion = iota
	// CompletionIncomplete means the instrument did not confirm completion.
	CompletionIncomplete
	// CompletionCompleted means the instrument confirmed completion, or the command has no
	// completion signal and its refractory period elapsed.
	CompletionCompleted
)

func (c Completion) String() string {
	switch c {
	case CompletionUnknown:
		return "Unknown"
	case CompletionIncomplete:
		return "Incomplete"
	case CompletionCompleted:
		return "Completed"
	default:
		return "Invalid"
	}
}

func completionOf(ok bool) Completion {
	if ok {
		return CompletionCompleted
	}

	return CompletionIncomplete
}
