package configloader

import (
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/rotolog"
)

// rawConfig mirrors the external configuration surface. Pointer fields
// distinguish "not set" from zero values so partial documents only
// override what they mention.
type rawConfig struct {
	InstanceName     string `mapstructure:"instance_name"      yaml:"instance_name"`
	Directory        string `mapstructure:"directory"          yaml:"directory"`
	FileName         string `mapstructure:"file_name"          yaml:"file_name"`
	Level            string `mapstructure:"level"              yaml:"level"`
	MaxSizeBytes     *int64 `mapstructure:"max_size_bytes"     yaml:"max_size_bytes"`
	MaxFiles         *int   `mapstructure:"max_files"          yaml:"max_files"`
	Async            *bool  `mapstructure:"async"              yaml:"async"`
	QueueSize        *int   `mapstructure:"queue_size"         yaml:"queue_size"`
	Overflow         string `mapstructure:"overflow"           yaml:"overflow"`
	DrainTimeout     string `mapstructure:"drain_timeout"      yaml:"drain_timeout"`
	InstantFlush     *bool  `mapstructure:"instant_flush"      yaml:"instant_flush"`
	EchoConsole      *bool  `mapstructure:"echo_console"       yaml:"echo_console"`
	ProcessScopedDir *bool  `mapstructure:"process_scoped_dir" yaml:"process_scoped_dir"`
}

//nolint:cyclop // field-by-field override mapping is flat and mechanical.
func applyRaw(raw rawConfig) (*rotolog.Config, error) {
	cfg := rotolog.DefaultConfig()

	if raw.InstanceName != "" {
		cfg.InstanceName = raw.InstanceName
	}

	if raw.Directory != "" {
		cfg.Directory = raw.Directory
	}

	if raw.FileName != "" {
		cfg.FileName = raw.FileName
	}

	if raw.Level != "" {
		level, err := rotolog.ParseLevel(raw.Level)
		if err != nil {
			return nil, err
		}

		cfg.Level = level
	}

	if raw.MaxSizeBytes != nil {
		cfg.MaxSizeBytes = *raw.MaxSizeBytes
	}

	if raw.MaxFiles != nil {
		cfg.MaxFiles = *raw.MaxFiles
	}

	if raw.Async != nil {
		cfg.Async = *raw.Async
	}

	if raw.QueueSize != nil {
		cfg.QueueSize = *raw.QueueSize
	}

	if raw.Overflow != "" {
		strategy, err := parseOverflow(raw.Overflow)
		if err != nil {
			return nil, err
		}

		cfg.Overflow = strategy
	}

	if raw.DrainTimeout != "" {
		timeout, err := time.ParseDuration(raw.DrainTimeout)
		if err != nil {
			return nil, ewrap.Wrapf(err, "invalid drain_timeout %q", raw.DrainTimeout)
		}

		cfg.DrainTimeout = timeout
	}

	if raw.InstantFlush != nil {
		cfg.InstantFlush = *raw.InstantFlush
	}

	if raw.EchoConsole != nil {
		cfg.EchoConsole = *raw.EchoConsole
	}

	if raw.ProcessScopedDir != nil {
		cfg.ProcessScopedDir = *raw.ProcessScopedDir
	}

	err := cfg.Validate()
	if err != nil {
		return nil, ewrap.Wrap(err, "loaded configuration is invalid")
	}

	return &cfg, nil
}

func parseOverflow(value string) (rotolog.OverflowStrategy, error) {
	switch strings.ToLower(value) {
	case "drop_newest", "drop-newest":
		return rotolog.OverflowDropNewest, nil
	case "drop_oldest", "drop-oldest":
		return rotolog.OverflowDropOldest, nil
	case "block":
		return rotolog.OverflowBlock, nil
	default:
		return rotolog.OverflowDropNewest, ewrap.New("invalid overflow strategy: " + value)
	}
}

func allKeys() []string {
	return []string{
		"instance_name",
		"directory",
		"file_name",
		"level",
		"max_size_bytes",
		"max_files",
		"async",
		"queue_size",
		"overflow",
		"drain_timeout",
		"instant_flush",
		"echo_console",
		"process_scoped_dir",
	}
}
