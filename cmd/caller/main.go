package main

import (
	"context"
	goflag "flag"

	flag "github.com/spf13/pflag"
	"github.com/visavis-rtc/visavis/pkg/caller"
	"github.com/visavis-rtc/visavis/pkg/config"
	"github.com/visavis-rtc/visavis/pkg/logger"
	"github.com/visavis-rtc/visavis/pkg/os"
)

var Version = "?"

func main() {
	conf := config.NewCallerConfig()
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	conf.ParseFlags()

	log := logger.NewConsole(conf.Caller.Debug, "call", false)
	log.Info().Msgf("version %s", Version)

	c, err := caller.New(conf, log)
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't init the caller")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-os.ExpectTermination()
		cancel()
	}()
	if err := c.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("call failed")
	}
}
