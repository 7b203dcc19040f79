package link

import "sync/atomic"

// LinkStats counts wire-level events. Counters are monotonically
// increasing and exist for observability only.
type LinkStats struct {
	FramesIn     atomic.Uint64
	FramesOut    atomic.Uint64
	CRCErrors    atomic.Uint64
	LengthErrors atomic.Uint64
}

// LinkStatsSnapshot is a point-in-time copy of LinkStats.
type LinkStatsSnapshot struct {
	FramesIn     uint64
	FramesOut    uint64
	CRCErrors    uint64
	LengthErrors uint64
}

func (s *LinkStats) snapshot() LinkStatsSnapshot {
	return LinkStatsSnapshot{
		FramesIn:     s.FramesIn.Load(),
		FramesOut:    s.FramesOut.Load(),
		CRCErrors:    s.CRCErrors.Load(),
		LengthErrors: s.LengthErrors.Load(),
	}
}

// CallStats counts request/response events on a Coordinator.
type CallStats struct {
	Calls     atomic.Uint64
	Responses atomic.Uint64
	Timeouts  atomic.Uint64
	Unmatched atomic.Uint64

	Acks   atomic.Uint64
	Errs   atomic.Uint64
	Busies atomic.Uint64
	Dones  atomic.Uint64
	Others atomic.Uint64
}

// CallStatsSnapshot is a point-in-time copy of CallStats.
type CallStatsSnapshot struct {
	Calls     uint64
	Responses uint64
	Timeouts  uint64
	Unmatched uint64

	Acks   uint64
	Errs   uint64
	Busies uint64
	Dones  uint64
	Others uint64
}

func (s *CallStats) countResponse(code byte) {
	s.Responses.Add(1)
	switch code {
	case RspAck:
		s.Acks.Add(1)
	case RspErr:
		s.Errs.Add(1)
	case RspBusy:
		s.Busies.Add(1)
	case RspDone:
		s.Dones.Add(1)
	default:
		s.Others.Add(1)
	}
}

func (s *CallStats) snapshot() CallStatsSnapshot {
	return CallStatsSnapshot{
		Calls:     s.Calls.Load(),
		Responses: s.Responses.Load(),
		Timeouts:  s.Timeouts.Load(),
		Unmatched: s.Unmatched.Load(),
		Acks:      s.Acks.Load(),
		Errs:      s.Errs.Load(),
		Busies:    s.Busies.Load(),
		Dones:     s.Dones.Load(),
		Others:    s.Others.Load(),
	}
}
