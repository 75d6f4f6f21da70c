// Package configloader loads logger configurations from the
// environment, YAML documents, or configuration files using Viper.
//
// Loaded values overlay the package defaults, and the result is
// validated before it is returned, so a configuration obtained here is
// always safe to hand to the adapter.
package configloader

import (
	"bytes"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/hyp3rd/rotolog"
)

// FromEnv builds a configuration from environment variables with the
// provided prefix, e.g. prefix "myapp" reads MYAPP_DIRECTORY,
// MYAPP_MAX_SIZE_BYTES and so on.
func FromEnv(prefix string) (*rotolog.Config, error) {
	viperInstance := viper.New()

	err := configureViperEnv(viperInstance, prefix)
	if err != nil {
		return nil, err
	}

	return fromViper(viperInstance)
}

// FromYAML parses the provided YAML document into a configuration.
func FromYAML(data []byte) (*rotolog.Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ewrap.Wrapf(err, "failed to read config from YAML")
	}

	return fromViper(viperInstance)
}

// FromFile loads a configuration from the given file path; the format
// is inferred from the extension.
func FromFile(path string) (*rotolog.Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(path)

	err := viperInstance.ReadInConfig()
	if err != nil {
		return nil, ewrap.Wrapf(err, "failed to read config file %s", path)
	}

	return fromViper(viperInstance)
}

func configureViperEnv(viperInstance *viper.Viper, prefix string) error {
	replacer := strings.NewReplacer(".", "_")
	viperInstance.SetEnvKeyReplacer(replacer)
	viperInstance.AutomaticEnv()

	if prefix != "" {
		viperInstance.SetEnvPrefix(strings.ToLower(strings.TrimSuffix(prefix, "_")))
	}

	errorGroup := ewrap.NewErrorGroup()

	for _, key := range allKeys() {
		err := viperInstance.BindEnv(key)
		if err != nil {
			errorGroup.Add(err)
		}
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

func fromViper(viperInstance *viper.Viper) (*rotolog.Config, error) {
	var raw rawConfig

	err := viperInstance.Unmarshal(&raw)
	if err != nil {
		return nil, ewrap.Wrapf(err, "failed to unmarshal config")
	}

	return applyRaw(raw)
}
