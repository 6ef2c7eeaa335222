package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
}

type PowerCfg struct {
	WhiteCap float64 `yaml:"white_cap"` // 0..1, 0 disables
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "nrz" | "sim"
	Leds       int    `yaml:"leds"`
	Brightness int    `yaml:"brightness"` // 0-100
	Speed      int    `yaml:"speed"`      // 1-100
	Effect     string `yaml:"effect"`
	ColorSpace string `yaml:"colorspace"` // "hsv" | "hsl" | "rgb"
	AutoCycle  bool   `yaml:"auto_cycle"`
	CycleMs    int    `yaml:"cycle_ms"`

	SPI   SPI      `yaml:"spi,omitempty"`
	Power PowerCfg `yaml:"power"`
}

// Default matches the engine's boot state.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		Leds:       8,
		Brightness: 50,
		Speed:      50,
		Effect:     "rainbow_chase",
		ColorSpace: "hsv",
		AutoCycle:  true,
		CycleMs:    5000,
		Power:      PowerCfg{WhiteCap: 0.85},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
