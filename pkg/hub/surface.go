package hub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// Bridge is the notification surface and observer write channel. State
// pushes go out as retained mode/<i>/state topics so the hub sees the
// last committed state even across its own restarts; write intents
// come back in on mode/<i>/set and trigger/set at whatever rate the
// hub produces them.
type Bridge struct {
	Queue      *Queue
	Candidates int

	// OnSelect receives candidate selection intents.
	OnSelect func(candidate int)
	// OnTrigger receives trigger intents.
	OnTrigger func()
}

// Start subscribes the intent topics.
func (b *Bridge) Start() {
	b.Queue.Sub("mode/+/set", b.onModeSet)
	b.Queue.Sub("trigger/set", b.onTrigger)
}

// Report implements the reconciler's notification surface. Pushes are
// fire-and-forget: the hub caches and polls, no acknowledgement exists.
func (b *Bridge) Report(candidate int, on bool) error {
	b.Queue.PubWith(modeStateTopic(candidate), []byte(onOffPayload(on)), 0, true)
	return nil
}

func (b *Bridge) onModeSet(topic string, payload []byte) {
	candidate, ok := parseModeSetTopic(topic)
	if !ok {
		glog.Warningf("malformed intent topic %q", topic)
		return
	}
	on, ok := parseOnOff(payload)
	if !ok {
		glog.Warningf("malformed intent payload %q on %q", payload, topic)
		return
	}
	if b.Candidates > 0 && (candidate < 0 || candidate >= b.Candidates) {
		glog.Warningf("intent for unknown candidate %d, have %d", candidate, b.Candidates)
		return
	}
	if !on {
		// Off intents are ignored: the reconciler alone enforces the
		// one-of-N invariant, an off push would race its bursts.
		glog.V(1).Infof("ignore off intent for %d", candidate)
		return
	}
	if h := b.OnSelect; h != nil {
		h(candidate)
	}
}

func (b *Bridge) onTrigger(topic string, payload []byte) {
	if on, ok := parseOnOff(payload); ok && !on {
		return
	}
	if h := b.OnTrigger; h != nil {
		h()
	}
}

func modeStateTopic(candidate int) string {
	return fmt.Sprintf("mode/%d/state", candidate)
}

func parseModeSetTopic(topic string) (int, bool) {
	tokens := strings.Split(topic, "/")
	if len(tokens) != 3 || tokens[0] != "mode" || tokens[2] != "set" {
		return 0, false
	}
	candidate, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, false
	}
	return candidate, true
}

func onOffPayload(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func parseOnOff(payload []byte) (on, ok bool) {
	switch strings.ToLower(strings.TrimSpace(string(payload))) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	}
	return false, false
}
