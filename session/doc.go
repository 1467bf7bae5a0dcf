// Package session implements the instrument session: message I/O over a transport, the status
// byte model, error queue draining, and the clear, reset and operation-complete handshakes of
// the SCPI and TSP command languages.
//
// A Session is owned by one logical caller. Every write, query and wait blocks the caller until
// the transport answers or the wait ends; only the counters in Metrics and the diagnostic
// accessors may be read from other goroutines.
//
// Applying a status byte sample is the single path that updates the status cache. When the sample
// signals queued errors and no pending message, the session drains the instrument error queue
// before the sample application returns:
//
//	stb, err := sess.ReadStatusByte(ctx)
//	if sess.HasDeviceError() {
//		log.Println(sess.DeviceErrorReport())
//	}
//
// Waits sample the status byte at a fixed interval until a condition holds or the timeout elapses.
// A timeout is reported in the outcome, not as an error:
//
//	out, err := sess.AwaitOperationCompletion(ctx, 5*time.Second)
//	if err == nil && out.TimedOut {
//		// stop waiting; the instrument may still be busy
//	}
package session
