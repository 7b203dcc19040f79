package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/propworks/proplink/pkg/framework"
	"github.com/propworks/proplink/pkg/link/serial"
	"github.com/propworks/proplink/pkg/node"
)

var (
	configFile = "linknoded.yml"
)

func init() {
	flag.StringVar(&configFile, "config", configFile, "Config file.")
}

func main() {
	flag.Parse()

	cfg, err := node.Load(configFile)
	if err != nil {
		glog.Exitf("load config: %v", err)
	}
	port, err := serial.Config{Device: cfg.Link.Device, Baud: cfg.Link.Baud}.Open()
	if err != nil {
		glog.Exitf("open %s: %v", cfg.Link.Device, err)
	}
	n := node.NewPeerNode(cfg, port)
	runner := framework.NewRunner().HandleSignals()
	runner.Go(n.Runnables(port)...)
	runner.Go(framework.NamedRun("hello", framework.RunFunc(func(ctx context.Context) error {
		// announce after the read loop is up; failure is harmless,
		// the peer initiates its own sync on settlement anyway
		time.Sleep(100 * time.Millisecond)
		if err := n.Hello(ctx); err != nil {
			glog.Warningf("hello: %v", err)
		}
		<-ctx.Done()
		return ctx.Err()
	})))
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
