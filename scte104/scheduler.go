package scte104

import (
	"log/slog"
	"time"

	"github.com/zsiec/vanc/vanc"
)

// schedState is the scheduler's internal state (spec §4.6).
type schedState uint8

const (
	stateIdle schedState = iota
	stateArmed
	stateCounting
	stateHeartbeat
)

// v210LineWidth is the active-line width the scheduler packs its v210
// output at, per spec §4.5.
const v210LineWidth = 1920

// vancDID, vancSDID identify SCTE-104 VANC carriage per SMPTE 2010.
const (
	vancDID  = 0x41
	vancSDID = 0x07
)

// heartbeatInterval is the minimum spacing between SPLICE_NULL heartbeat
// emissions while in the HEARTBEAT state.
const heartbeatInterval = time.Second

// nextMarkFloor is the next_remaining_mark threshold at or below which the
// scheduler stops re-emitting SPLICE and switches to heartbeats.
const nextMarkFloor = 4500

// Session is a per-channel SCTE-104 scheduler: it parses a command string,
// then on each Tick (called exactly once per video frame by the frame
// clock) counts down the configured pre-roll window and emits the
// corresponding SCTE-104 op, wrapped as v210 VANC words. Session holds no
// goroutines or locks — spec §5 pins a single-threaded, cooperative model
// where only the frame clock's own thread ever touches a Session.
type Session struct {
	log *slog.Logger
	now func() time.Time

	cmd   Command
	state schedState

	firstFrame        time.Time
	lastEmit          time.Time
	nextRemainingMark uint16
}

// NewSession parses cmd and returns an armed Session. log may be nil, in
// which case slog.Default() is used.
func NewSession(cmd string, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		log: log.With("component", "scte104-scheduler"),
		now: time.Now,
	}
	if err := s.configure(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// Update reconfigures the session from a new command string, taking effect
// on the next Tick. Any pending heartbeat state from the previous cue is
// dropped.
func (s *Session) Update(cmd string) error {
	return s.configure(cmd)
}

func (s *Session) configure(cmd string) error {
	c, err := ParseCommand(cmd)
	if err != nil {
		s.log.Warn("rejecting scte-104 command", "error", err)
		return err
	}
	s.cmd = c
	s.state = stateArmed
	s.nextRemainingMark = c.PreRollTimeMS
	s.log.Info("scte-104 session configured", "opid", c.OpID, "splice_type", c.SpliceType,
		"pre_roll_ms", c.PreRollTimeMS, "break_duration", c.BreakDuration, "auto_return", c.AutoReturn)
	return nil
}

// Tick advances the scheduler by exactly one video frame and returns any
// v210 words to attach to this frame's ancillary data. Tick never fails: an
// unconfigured (IDLE) session returns nil.
func (s *Session) Tick() []uint32 {
	switch s.state {
	case stateArmed:
		return s.tickFirstFrame()
	case stateCounting:
		return s.tickCounting()
	case stateHeartbeat:
		return s.tickHeartbeat()
	default:
		return nil
	}
}

func (s *Session) tickFirstFrame() []uint32 {
	now := s.now()
	s.firstFrame = now
	s.lastEmit = now

	if s.cmd.OpID != OpIDSplice {
		s.state = stateHeartbeat
		words := s.emitSpliceNull()
		s.log.Debug("scte-104 first tick emitted", "state", s.state)
		return words
	}

	words := s.emitAndAdvanceMark()
	if countdownApplies(s.cmd.SpliceType) {
		// emitAndAdvanceMark already moved state to HEARTBEAT if the single
		// configured pre-roll window was already at or below the floor.
		if s.state != stateHeartbeat {
			s.state = stateCounting
		}
	} else {
		// START_IMMEDIATE, END_IMMEDIATE, and CANCEL have no pre-roll window
		// to count down: this one emit already represents the splice, so the
		// very next tick moves straight to heartbeat without re-emitting.
		s.state = stateCounting
	}
	s.log.Debug("scte-104 first tick emitted", "state", s.state)
	return words
}

func (s *Session) tickCounting() []uint32 {
	if !countdownApplies(s.cmd.SpliceType) {
		s.state = stateHeartbeat
		return nil
	}

	elapsedMs := s.now().Sub(s.firstFrame).Milliseconds()
	remaining := int64(s.cmd.PreRollTimeMS) - elapsedMs
	if remaining > int64(s.nextRemainingMark) {
		return nil
	}
	return s.emitAndAdvanceMark()
}

// emitAndAdvanceMark emits a SPLICE at the current next_remaining_mark, then
// decrements the mark by one second. If the new mark is at or below
// nextMarkFloor — including having gone negative, which signed arithmetic
// catches the same way (spec §9 open question 4) — the session switches to
// HEARTBEAT instead of keeping the decremented mark.
func (s *Session) emitAndAdvanceMark() []uint32 {
	words := s.emitSplice(s.nextRemainingMark)
	s.lastEmit = s.now()

	nextMark := int32(s.nextRemainingMark) - 1000
	if nextMark <= nextMarkFloor {
		s.state = stateHeartbeat
		s.log.Debug("scte-104 pre-roll floor reached, switching to heartbeat", "next_mark", nextMark)
	} else {
		s.nextRemainingMark = uint16(nextMark)
	}
	return words
}

func (s *Session) tickHeartbeat() []uint32 {
	if s.now().Sub(s.lastEmit) < heartbeatInterval {
		return nil
	}
	words := s.emitSpliceNull()
	s.lastEmit = s.now()
	return words
}

func (s *Session) emitSplice(preRollTime uint16) []uint32 {
	msg := BuildSplice(SpliceParams{
		InsertType:     s.cmd.SpliceType,
		PreRollTime:    preRollTime,
		BreakDuration:  s.cmd.BreakDuration,
		AutoReturnFlag: s.cmd.AutoReturn,
	})
	return wrapVANC(msg)
}

func (s *Session) emitSpliceNull() []uint32 {
	return wrapVANC(BuildSpliceNull())
}

func wrapVANC(msg []byte) []uint32 {
	words, err := vanc.Packetize(msg, vancDID, vancSDID)
	if err != nil {
		// msg is always <= 32 bytes for this message family, well under
		// vanc.MaxDataCount; this can only fire on a programming error.
		panic(err)
	}
	tenBit := make([]uint16, len(words))
	copy(tenBit, words)
	return vanc.PackV210(tenBit, v210LineWidth)
}

// countdownApplies reports whether a splice type re-counts pre-roll across
// multiple ticks (START_NORMAL, END_NORMAL) versus firing once and going
// straight to heartbeat (START_IMMEDIATE, END_IMMEDIATE, CANCEL — there is
// no pre-roll to wait out).
func countdownApplies(st SpliceType) bool {
	return st == SpliceTypeStartNormal || st == SpliceTypeEndNormal
}
