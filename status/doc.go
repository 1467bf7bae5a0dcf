// Package status models the instrument status byte: one single-bit mask per signal category,
// the decode rules that turn a sampled byte into booleans, and the Register that applies
// each sample and notifies listeners.
//
// A status byte carries independent signals that are easy to conflate. The Register keeps a
// strict priority between two of them: when the error-available bit is set while a message is
// still pending, the error queue is NOT drained, because reading the error queue before the
// pending message has been delivered interrupts the query on several instrument families.
// The drain fires on a later sample once the message bit has cleared.
package status
