// Package poll implements the bounded polling primitive every wait in go-instrument is built on:
// sample a value until a predicate holds or a timeout elapses.
//
// The wait has a fixed shape that callers can rely on:
//
//   - wait the onset delay
//   - take one sample; when the timeout is zero or negative, return right away
//   - otherwise yield, wait the poll interval, resample and evaluate the predicate
//     until it holds or the elapsed time reaches the timeout
//
// The elapsed time reported in Outcome includes the onset delay. A timeout is not an
// error: the Outcome carries TimedOut=true together with the last sampled value.
//
// Usage Example:
//
//	outcome, err := poll.Await(ctx, poll.Params{
//	    Timeout:      2 * time.Second,
//	    PollInterval: 10 * time.Millisecond,
//	}, readStatusByte, poll.AllBits(0x20))
//	if err != nil {
//	    // sampling failed or ctx was cancelled
//	}
//	if outcome.TimedOut {
//	    // stop waiting; the instrument may still be busy
//	}
package poll
