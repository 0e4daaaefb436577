package config

import (
	"time"
)

// Duration decodes "5s" style values from YAML files and env vars.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))

	return err
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
