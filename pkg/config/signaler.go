package config

import (
	flag "github.com/spf13/pflag"
)

type SignalerConfig struct {
	Signaler Signaler
}

type Signaler struct {
	Debug      bool
	Monitoring Monitoring
	Origin     string
	Server     Server
}

// allows custom config path
var signalerConfigPath string

func NewSignalerConfig() (conf SignalerConfig) {
	if err := LoadConfig(&conf, signalerConfigPath); err != nil {
		panic(err)
	}
	return
}

func (c *SignalerConfig) ParseFlags() {
	c.Signaler.Server.WithFlags()
	flag.IntVar(&c.Signaler.Monitoring.Port, "monitoring.port", c.Signaler.Monitoring.Port, "Monitoring server port")
	flag.StringVar(&signalerConfigPath, "conf", signalerConfigPath, "Set custom configuration file path")
	flag.Parse()
}
