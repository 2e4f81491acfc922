// Package config holds the route presets and the settings shared by the
// command line tool and the HTTP server.
package config

import (
	"io/ioutil"
	"sort"
	"strings"
	"time"

	duration "github.com/ChannelMeter/iso8601duration"
	"github.com/go-playground/validator/v10"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://northwestern.tripshot.com"
	DefaultTimeout = "PT10S"

	Outbound = "outbound"
	Inbound  = "inbound"

	// Both selects every configured route
	Both = "both"
)

// Preset is everything needed to report on one route: where to fetch it
// from and which stop and direction riders care about.
type Preset struct {
	RouteID     string `yaml:"routeId" validate:"required"`
	Stop        string `yaml:"stop" validate:"required"`
	Direction   string `yaml:"direction" validate:"required"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description"`
}

// Display is the stop name shown to riders
func (p Preset) Display() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Stop
}

type Config struct {
	BaseURL      string            `yaml:"baseURL" validate:"required,url"`
	Timeout      string            `yaml:"timeout" validate:"required"`
	Timezone     string            `yaml:"timezone"`
	FilterByStop *bool             `yaml:"filterByStop"`
	Presets      map[string]Preset `yaml:"presets" validate:"required,min=1,dive"`
}

// Default returns the Northwestern intercampus routes
func Default() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Presets: map[string]Preset{
			Outbound: {
				RouteID:     "23174203-507c-48fe-811a-5d13fcf7be65",
				Stop:        "Ward",
				Direction:   "Outbound",
				DisplayName: "Ward",
				Description: "Outbound route - when buses arrive at Ward",
			},
			Inbound: {
				RouteID:     "EBEE9228-C993-4279-B7CE-8FCA0A46CA65",
				Stop:        "Sheridan/Noyes (IB)",
				Direction:   "Inbound",
				DisplayName: "Tech",
				Description: "Inbound route - when buses depart from Tech",
			},
		},
	}
}

// Load reads a YAML file over the defaults. Presets in the file replace the
// default preset of the same name and add to the rest.
func Load(path string) (*Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file `%s`", path)
	}

	cfg, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file `%s`", path)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(b []byte) (*Config, error) {
	file := Config{}
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}

	cfg := Default()

	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.Timeout != "" {
		cfg.Timeout = file.Timeout
	}
	if file.Timezone != "" {
		cfg.Timezone = file.Timezone
	}
	if file.FilterByStop != nil {
		cfg.FilterByStop = file.FilterByStop
	}
	for name, preset := range file.Presets {
		cfg.Presets[strings.ToLower(name)] = preset
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags and the values that cannot be expressed
// as tags: the timeout and time zone must parse, and preset names must not
// clash with the route selector or the bus-times response.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for name := range c.Presets {
		switch name {
		case "", Both, model.TimestampKey:
			return errors.Errorf("preset name `%s` is reserved", name)
		}
	}

	return nil
}

// TimeoutDuration is the HTTP timeout for fetching a route summary
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := duration.FromString(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "timeout `%s` is not a valid ISO-8601 duration", c.Timeout)
	}
	return d.ToDuration(), nil
}

// Location is the time zone departure times are shown in; local time unless
// a time zone is configured.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown time zone `%s`", c.Timezone)
	}
	return loc, nil
}

// StopFilter reports whether departures are filtered by the preset's stop;
// on unless switched off.
func (c *Config) StopFilter() bool {
	return c.FilterByStop == nil || *c.FilterByStop
}

// Preset looks up a preset by case-insensitive name
func (c *Config) Preset(name string) (Preset, bool) {
	p, ok := c.Presets[strings.ToLower(name)]
	return p, ok
}

// Names lists the preset names in lexical order
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
