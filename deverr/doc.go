// Package deverr parses the compound error messages an instrument returns from its error
// queue and keeps the errors of one drain episode in order.
//
// Two wire forms are accepted:
//
//	<number>,"<message>"[,level=<level>]
//	<number>,<message>;<level>;<timestamp>
//
// A reply without any comma is accepted as a bare error number or as a message-only error.
// Malformed replies never fail: they are recovered with sentinel values so that a broken error
// report cannot abort error handling.
package deverr
