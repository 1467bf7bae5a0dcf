// Package config loads instrument session settings from YAML and turns them into
// transport and session options.
//
// A settings file names the resource and, optionally, the command language, the timing of the
// handshakes and the serial line parameters:
//
//	resource: TCPIP0::192.168.0.20::5025::SOCKET
//	language: tsp
//	timeout: 2s
//	operation_completion_timeout: 30s
//	post_write_delay: 5ms
//	log_level: debug
//	transport:
//	  termination: lf
//
// Durations use the time.ParseDuration syntax. Omitted values keep the defaults of the transport
// and session packages.
//
// Example:
//
//	settings, err := config.Load("instrument.yaml")
//	if err != nil {
//		return err
//	}
//
//	s, err := config.Open(ctx, settings)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
package config
