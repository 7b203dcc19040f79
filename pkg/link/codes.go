package link

// Commands (initiator to responder).
const (
	CmdHello        byte = 0x01
	CmdSetSelection byte = 0x02
	CmdTrigger      byte = 0x03
	CmdPing         byte = 0x04
)

// Unsolicited notifications (responder originated, never correlated).
const (
	NotifyPaired   byte = 0x10
	NotifyUnpaired byte = 0x11
)

// Responses (to the most recent request).
const (
	RspAck  byte = 0x80
	RspErr  byte = 0x81
	RspBusy byte = 0x82
	RspDone byte = 0x83
)

const (
	notifyLo byte = 0x10
	notifyHi byte = 0x1f
)

// IsResponse reports whether cmd is in the response range.
func IsResponse(cmd byte) bool {
	return cmd >= 0x80
}

// IsNotification reports whether cmd is in the reserved range for
// unsolicited notifications.
func IsNotification(cmd byte) bool {
	return cmd >= notifyLo && cmd <= notifyHi
}

// CodeName returns a human readable name for known codes, used in logs.
func CodeName(cmd byte) string {
	switch cmd {
	case CmdHello:
		return "HELLO"
	case CmdSetSelection:
		return "SET_SELECTION"
	case CmdTrigger:
		return "TRIGGER"
	case CmdPing:
		return "PING"
	case NotifyPaired:
		return "PAIRED"
	case NotifyUnpaired:
		return "UNPAIRED"
	case RspAck:
		return "ACK"
	case RspErr:
		return "ERR"
	case RspBusy:
		return "BUSY"
	case RspDone:
		return "DONE"
	}
	return "UNKNOWN"
}
