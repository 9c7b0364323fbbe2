package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/vitalctl/internal/feed"
)

type fileConfig struct {
	MLLPHost    string       `toml:"mllp_host"`
	MLLPPort    int          `toml:"mllp_port"`
	TimeoutSec  int          `toml:"timeout_seconds"`
	KeepAlive   bool         `toml:"keep_alive"`
	PatientID   string       `toml:"patient_id"`
	PatientName string       `toml:"patient_name"`
	Stdout      bool         `toml:"stdout"`
	Devices     []fileDevice `toml:"devices"`
}

type fileDevice struct {
	Kind     string `toml:"kind"`
	DeviceID string `toml:"device_id"`
	Interval string `toml:"interval"`
	Count    int    `toml:"count"`
	Seed     int64  `toml:"seed"`
}

// buildConfig layers flags over the optional config file over defaults.
// Flags win; file entries override defaults only when the file defines
// them.
func buildConfig(opts options) (feed.Config, []feed.DeviceConfig, error) {
	cfg := feed.DefaultConfig()
	var devices []feed.DeviceConfig

	if opts.configPath != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(opts.configPath, &raw)
		if err != nil {
			return feed.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
		if meta.IsDefined("mllp_host") {
			cfg.Host = strings.TrimSpace(raw.MLLPHost)
		}
		if meta.IsDefined("mllp_port") {
			cfg.Port = raw.MLLPPort
		}
		if meta.IsDefined("timeout_seconds") {
			if raw.TimeoutSec <= 0 {
				return feed.Config{}, nil, fmt.Errorf("timeout_seconds must be positive")
			}
			cfg.Timeout = time.Duration(raw.TimeoutSec) * time.Second
		}
		if meta.IsDefined("keep_alive") {
			cfg.KeepAlive = raw.KeepAlive
		}
		if meta.IsDefined("patient_id") {
			cfg.PatientID = strings.TrimSpace(raw.PatientID)
		}
		if meta.IsDefined("patient_name") {
			cfg.PatientName = strings.TrimSpace(raw.PatientName)
		}
		if meta.IsDefined("stdout") {
			cfg.Stdout = raw.Stdout
		}
		for i, d := range raw.Devices {
			dev, err := deviceFromFile(d)
			if err != nil {
				return feed.Config{}, nil, fmt.Errorf("devices[%d]: %w", i, err)
			}
			devices = append(devices, dev)
		}
	}

	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.stdout {
		cfg.Stdout = true
	}
	if opts.patientID != "" {
		cfg.PatientID = opts.patientID
	}
	if opts.patientName != "" {
		cfg.PatientName = opts.patientName
	}

	// No file-declared fleet means the flags describe a single device.
	if len(devices) == 0 {
		dev := feed.DeviceConfig{
			Kind:     opts.device,
			DeviceID: opts.deviceID,
			Interval: opts.interval,
			Count:    opts.count,
			Seed:     opts.seed,
		}
		if err := fillDeviceDefaults(&dev); err != nil {
			return feed.Config{}, nil, err
		}
		devices = []feed.DeviceConfig{dev}
	}

	if !cfg.Stdout && (cfg.Host == "" || cfg.Port == 0) {
		return feed.Config{}, nil, fmt.Errorf("choose an output: -stdout, or -mllp-host and -mllp-port")
	}
	return cfg, devices, nil
}

func deviceFromFile(d fileDevice) (feed.DeviceConfig, error) {
	dev := feed.DeviceConfig{
		Kind:     strings.TrimSpace(d.Kind),
		DeviceID: strings.TrimSpace(d.DeviceID),
		Count:    d.Count,
		Seed:     d.Seed,
	}
	if d.Interval != "" {
		interval, err := time.ParseDuration(strings.TrimSpace(d.Interval))
		if err != nil {
			return feed.DeviceConfig{}, fmt.Errorf("parse interval: %w", err)
		}
		dev.Interval = interval
	}
	if err := fillDeviceDefaults(&dev); err != nil {
		return feed.DeviceConfig{}, err
	}
	return dev, nil
}

func fillDeviceDefaults(dev *feed.DeviceConfig) error {
	id, interval, ok := deviceDefaults(dev.Kind)
	if !ok {
		return fmt.Errorf("unknown device kind %q", dev.Kind)
	}
	if dev.DeviceID == "" {
		dev.DeviceID = id
	}
	if dev.Interval == 0 {
		dev.Interval = interval
	}
	return nil
}

func deviceDefaults(kind string) (deviceID string, interval time.Duration, ok bool) {
	switch kind {
	case "monitor":
		return "MONITOR^BED-01", time.Second, true
	case "ventilator":
		return "VENT^BED-01", 2 * time.Second, true
	case "capnograph":
		return "CAPNO^BED-01", 3 * time.Second, true
	case "pump":
		return "PUMP^BED-01", time.Minute, true
	default:
		return "", 0, false
	}
}
