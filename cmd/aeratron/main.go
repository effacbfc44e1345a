package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mgkoenig/Aeratron"

	"github.com/brutella/hap"
	"github.com/brutella/hap/log"

	"github.com/urfave/cli/v2"
)

func main() {
	var dir, file string
	var debug bool

	app := cli.App{
		Name:  "aeratron bridge",
		Usage: "server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Value:       "/var/db/aeratron",
				Usage:       "configuration directory",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "config",
				Value:       "aeratron.json",
				Usage:       "configuration file",
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "enable debug",
				Destination: &debug,
			},
		},
		Action: func(c *cli.Context) error {
			if debug {
				log.Debug.Enable()
			}

			fulldir, err := filepath.Abs(dir)
			if err != nil {
				log.Info.Panic("unable to get config directory", dir)
			}
			cfd := filepath.Join(fulldir, file)
			conf, err := aeratron.LoadConfig(cfd)
			if err != nil {
				log.Info.Panic(err.Error())
			}

			// the transmit line is the one resource we cannot run without
			pulser, err := aeratron.OpenLinePulser(conf.GPIOChip, conf.GPIOLine)
			if err != nil {
				log.Info.Panic(err.Error())
			}
			defer pulser.Close()

			events, err := aeratron.NewEventLog(conf.EventLog)
			if err != nil {
				log.Info.Panic(err.Error())
			}
			defer events.Close()

			radio := aeratron.NewTransmitter(pulser, int(conf.Repeats), int(conf.BurstLength))
			ctrl := aeratron.NewController(conf.FanAddress, radio, events)
			fan := aeratron.NewFanAccessory(conf.Name, ctrl)
			panel := aeratron.NewWebPanel(ctrl, fan, events)

			s, err := hap.NewServer(hap.NewFsStore(fulldir), fan.A)
			if err != nil {
				log.Info.Panic(err)
			}
			if conf.Pin != "" {
				s.Pin = conf.Pin
			}

			ctx, cancel := context.WithCancel(context.Background())
			var wg sync.WaitGroup

			wg.Add(1)
			go func(ctx context.Context) {
				defer wg.Done()
				panel.Serve(ctx, conf.ListenAddr)
			}(ctx)

			wg.Add(1)
			go func(ctx context.Context) {
				defer wg.Done()
				s.ListenAndServe(ctx)
			}(ctx)

			events.Event("bridge started")

			// wait for signal to shut down
			sigch := make(chan os.Signal, 3)
			signal.Notify(sigch, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP, os.Interrupt)

			// wait until shutdown signal sent
			sig := <-sigch

			log.Info.Printf("shutdown requested by signal: %s", sig)
			events.Event("bridge stopped")
			cancel()

			wg.Wait()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Info.Panic(err)
	}
}
