package hub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic   string
		pattern string
		match   bool
	}{
		{"mode/2/set", "mode/+/set", true},
		{"mode/2/set", "mode/2/set", true},
		{"mode/2/state", "mode/+/set", false},
		{"trigger/set", "mode/+/set", false},
		{"mode/2/set", "#", true},
		{"mode/2/set", "mode/#", true},
		{"mode/2/set", "mode/+", false},
		{"mode", "mode/+/set", false},
	}
	for _, tc := range testCases {
		t.Run(tc.topic+" vs "+tc.pattern, func(t *testing.T) {
			require.Equal(t, tc.match, MatchTopic(tc.topic, tc.pattern))
		})
	}
}

func TestParseModeSetTopic(t *testing.T) {
	candidate, ok := parseModeSetTopic("mode/3/set")
	require.True(t, ok)
	require.Equal(t, 3, candidate)

	for _, topic := range []string{"mode/x/set", "mode/3/state", "trigger/set", "mode/3", "a/3/set"} {
		_, ok := parseModeSetTopic(topic)
		require.Falsef(t, ok, "topic %q should not parse", topic)
	}
}

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "ON", "1", "true", " on "} {
		on, ok := parseOnOff([]byte(s))
		require.True(t, ok, s)
		require.True(t, on, s)
	}
	for _, s := range []string{"off", "0", "false"} {
		on, ok := parseOnOff([]byte(s))
		require.True(t, ok, s)
		require.False(t, on, s)
	}
	_, ok := parseOnOff([]byte("maybe"))
	require.False(t, ok)
}

func TestBridgeIntents(t *testing.T) {
	var selected []int
	triggers := 0
	b := &Bridge{
		Candidates: 4,
		OnSelect:   func(c int) { selected = append(selected, c) },
		OnTrigger:  func() { triggers++ },
	}

	b.onModeSet("mode/2/set", []byte("on"))
	b.onModeSet("mode/1/set", []byte("off")) // ignored
	b.onModeSet("mode/9/set", []byte("on"))  // beyond Candidates
	b.onModeSet("mode/x/set", []byte("on"))  // malformed topic
	b.onModeSet("mode/0/set", []byte("??"))  // malformed payload
	b.onModeSet("mode/3/set", []byte("on"))
	require.Equal(t, []int{2, 3}, selected)

	b.onTrigger("trigger/set", []byte("on"))
	b.onTrigger("trigger/set", []byte("off")) // off is a UI reset, not an intent
	require.Equal(t, 1, triggers)
}

func TestModeStateTopic(t *testing.T) {
	require.Equal(t, "mode/0/state", modeStateTopic(0))
	require.Equal(t, "mode/3/state", modeStateTopic(3))
}
