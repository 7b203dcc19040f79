package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/propworks/proplink/pkg/link"
	"github.com/propworks/proplink/pkg/link/serial"
)

var (
	device   string
	baud     = serial.DefaultBaud
	evalOnly bool
)

func init() {
	flag.StringVar(&device, "device", device, "Serial device, empty lists available ports.")
	flag.IntVar(&baud, "baud", baud, "Baud rate.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

const sessionKey = "$session"

// session holds the open link shared by all commands.
type session struct {
	link  *link.Link
	coord *link.Coordinator
}

func sessionFrom(c *ishell.Context) *session {
	return c.Get(sessionKey).(*session)
}

func (s *session) call(c *ishell.Context, cmd byte, payload []byte, timeout time.Duration) {
	start := time.Now()
	rsp, err := s.coord.Call(context.Background(), cmd, payload, timeout)
	if err != nil {
		c.Err(err)
		return
	}
	c.Printf("%s in %v\n", link.CodeName(rsp.Cmd), time.Since(start).Round(time.Millisecond))
}

var commands = []*ishell.Cmd{
	{
		Name: "ping",
		Help: "check link liveness",
		Func: func(c *ishell.Context) {
			sessionFrom(c).call(c, link.CmdPing, nil, 0)
		},
	},
	{
		Name: "hello",
		Help: "announce to the peer",
		Func: func(c *ishell.Context) {
			sessionFrom(c).call(c, link.CmdHello, nil, 0)
		},
	},
	{
		Name: "select",
		Help: "select N: set the peer selection",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: select N"))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil || n < 0 || n > 0xff {
				c.Err(fmt.Errorf("bad candidate %q", c.Args[0]))
				return
			}
			sessionFrom(c).call(c, link.CmdSetSelection, []byte{byte(n)}, 0)
		},
	},
	{
		Name: "trigger",
		Help: "fire the peer pulse",
		Func: func(c *ishell.Context) {
			sessionFrom(c).call(c, link.CmdTrigger, nil, 2*time.Second)
		},
	},
	{
		Name: "stats",
		Help: "show link and call counters",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			ls, cs := s.link.Stats(), s.coord.Stats()
			c.Printf("frames in/out %d/%d, crc errors %d, length errors %d\n",
				ls.FramesIn, ls.FramesOut, ls.CRCErrors, ls.LengthErrors)
			c.Printf("calls %d, responses %d (ack %d err %d busy %d done %d), timeouts %d, unmatched %d\n",
				cs.Calls, cs.Responses, cs.Acks, cs.Errs, cs.Busies, cs.Dones, cs.Timeouts, cs.Unmatched)
		},
	},
}

func main() {
	flag.Parse()

	if device == "" {
		ports, err := serial.ListPorts()
		if err != nil {
			glog.Exit(err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	port, err := serial.Config{Device: device, Baud: baud}.Open()
	if err != nil {
		glog.Exitf("open %s: %v", device, err)
	}
	defer port.Close()

	l := link.New(port)
	coord := link.NewCoordinator(l)
	disp := link.NewDispatcher(l)
	disp.Responses = coord
	disp.HandleNotify(link.NotifyPaired, printNotify)
	disp.HandleNotify(link.NotifyUnpaired, printNotify)
	l.Handler = disp

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	sh := ishell.New()
	sh.Set(sessionKey, &session{link: l, coord: coord})
	sh.SetPrompt(fmt.Sprintf("[%s] > ", device))
	for _, cmd := range commands {
		sh.AddCmd(cmd)
	}
	if evalOnly {
		if err := sh.Process(flag.Args()...); err != nil {
			glog.Exit(err)
		}
		return
	}
	sh.Run()
}

func printNotify(ctx context.Context, f *link.Frame) {
	fmt.Printf("<- %s\n", link.CodeName(f.Cmd))
}
