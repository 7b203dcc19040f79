package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/propworks/proplink/pkg/framework"
	"github.com/propworks/proplink/pkg/hub"
	"github.com/propworks/proplink/pkg/link/serial"
	"github.com/propworks/proplink/pkg/node"
)

var (
	configFile = "linkhubd.yml"
)

func init() {
	flag.StringVar(&configFile, "config", configFile, "Config file.")
}

func newQueue(cfg *node.Config) (*hub.Queue, error) {
	options, prefix, err := hub.ClientOptionsFromURL(cfg.Hub.Broker)
	if err != nil {
		return nil, err
	}
	if cfg.Hub.ClientID != "" {
		options.SetClientID(cfg.Hub.ClientID)
	}
	return hub.NewQueue(options, prefix), nil
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
	queue, err := newQueue(cfg)
	if err != nil {
		glog.Exitf("hub queue: %v", err)
	}
	n := node.NewHubNode(cfg, port, queue)

	if token := queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Exitf("connect %s: %v", cfg.Hub.Broker, token.Error())
	}
	defer queue.Close()
	n.Bridge.Start()

	runner := framework.NewRunner().HandleSignals()
	runner.Go(n.Runnables(port)...)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
