package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrSettingsNil indicates that nil settings were passed.
	ErrSettingsNil = errors.New("config: settings is nil")
	// ErrInvalidSettings indicates a setting with an invalid value.
	ErrInvalidSettings = errors.New("config: invalid settings")
)

// Settings is the content of an instrument settings file.
type Settings struct {
	Resource string `yaml:"resource"`
	Language string `yaml:"language"`
	LogLevel string `yaml:"log_level"`

	Timeout                    time.Duration `yaml:"timeout"`
	OperationCompletionTimeout time.Duration `yaml:"operation_completion_timeout"`
	StatusReadDelay            time.Duration `yaml:"status_read_delay"`
	ReadAfterWriteDelay        time.Duration `yaml:"read_after_write_delay"`
	PostWriteDelay             time.Duration `yaml:"post_write_delay"`
	DiscardTimeout             time.Duration `yaml:"discard_timeout"`
	PollInterval               time.Duration `yaml:"poll_interval"`
	PollOnsetDelay             time.Duration `yaml:"poll_onset_delay"`

	Transport TransportSettings `yaml:"transport"`
}

// TransportSettings holds the line and serial port parameters.
type TransportSettings struct {
	// Termination is "lf", "cr" or a single character.
	Termination string        `yaml:"termination"`
	StatusQuery string        `yaml:"status_query"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	BaudRate    int           `yaml:"baud_rate"`
	DataBits    int           `yaml:"data_bits"`
	StopBits    int           `yaml:"stop_bits"`
	Parity      string        `yaml:"parity"`
}

// Load reads and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates settings from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Settings, error) {
	var s Settings

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
