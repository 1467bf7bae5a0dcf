// Package transport provides the message based I/O links a session talks to an instrument over.
//
// A Transport writes and reads terminated text lines and samples the instrument status byte.
// Transports are created from VISA style resource names through a registry of factories keyed
// by interface type:
//
//	TCPIP[board]::host::port::SOCKET     raw socket, e.g. TCPIP0::192.168.0.50::5025::SOCKET
//	ASRL[board]::INSTR                   serial port by number, e.g. ASRL1::INSTR
//	ASRL::path::INSTR                    serial port by device path, e.g. ASRL::/dev/ttyUSB0::INSTR
//
// Raw sockets and serial links have no out of band status byte, so the built-in transports
// obtain it with a status query, "*STB?" by default. Sessions using the TSP dialect change the
// query through StatusQueryConfigurer.
package transport
