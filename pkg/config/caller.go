package config

import (
	flag "github.com/spf13/pflag"
)

type CallerConfig struct {
	Caller Caller
	Webrtc Webrtc
}

type Caller struct {
	Debug bool
	// signaling server websocket endpoint, e.g. ws://localhost:8000/ws
	Signaler string
	// the room to join on start, empty for a fresh one
	Room string
}

var callerConfigPath string

func NewCallerConfig() (conf CallerConfig) {
	if err := LoadConfig(&conf, callerConfigPath); err != nil {
		panic(err)
	}
	return
}

func (c *CallerConfig) ParseFlags() {
	flag.StringVar(&c.Caller.Signaler, "signaler", c.Caller.Signaler, "Signaling server ws(s) address")
	flag.StringVar(&c.Caller.Room, "room", c.Caller.Room, "Room id to join")
	flag.StringVar(&callerConfigPath, "conf", callerConfigPath, "Set custom configuration file path")
	flag.Parse()
}
