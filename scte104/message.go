// Package scte104 encodes SCTE-104 splice_request_data / splice_null
// single-operation messages (wrapped in the SMPTE 2010 Payload Descriptor)
// and drives the frame-ticked pre-roll/heartbeat scheduler that emits them.
package scte104

import "github.com/zsiec/vanc/bitstream"

// OpID identifies the Multiple Operation Message's single operation.
type OpID uint16

const (
	OpIDNull       OpID = 0xFFFF
	OpIDSplice     OpID = 0x0101
	OpIDSpliceNull OpID = 0x0102
)

// SpliceType is the splice_insert_type field of a splice_request_data
// operation.
type SpliceType uint8

const (
	SpliceTypeStartNormal    SpliceType = 1
	SpliceTypeStartImmediate SpliceType = 2
	SpliceTypeEndNormal      SpliceType = 3
	SpliceTypeEndImmediate   SpliceType = 4
	SpliceTypeCancel         SpliceType = 5
)

// payloadDescriptor is the single-byte SMPTE 2010 prefix identifying the
// payload that follows as SCTE-104. It is not part of SCTE-104 proper.
const payloadDescriptor = 0x08

// SpliceParams carries the fields of one splice_request_data operation.
// PreRollTime is written verbatim into the message — the scheduler passes
// the current countdown value here, not the configured pre-roll duration.
type SpliceParams struct {
	InsertType      SpliceType
	EventID         uint32
	UniqueProgramID uint16
	PreRollTime     uint16
	BreakDuration   uint16
	AvailNum        uint8
	AvailsExpected  uint8
	AutoReturnFlag  bool
}

// BuildSplice emits a Multiple Operation Message carrying a single
// splice_request_data operation, per spec §4.5/§6.
func BuildSplice(p SpliceParams) []byte {
	w := newMessageWriter()
	writeOp(w, OpIDSplice, 14, func() {
		_ = w.WriteByte(byte(p.InsertType))
		w.WriteBytesMSB(uint64(p.EventID), 4)
		w.WriteBytesMSB(uint64(p.UniqueProgramID), 2)
		w.WriteBytesMSB(uint64(p.PreRollTime), 2)
		w.WriteBytesMSB(uint64(p.BreakDuration), 2)
		_ = w.WriteByte(p.AvailNum)
		_ = w.WriteByte(p.AvailsExpected)
		_ = w.WriteByte(boolByte(p.AutoReturnFlag))
	})
	return finalize(w)
}

// BuildSpliceNull emits a Multiple Operation Message carrying a single
// splice_null operation (the heartbeat op, with no operation payload).
func BuildSpliceNull() []byte {
	w := newMessageWriter()
	writeOp(w, OpIDSpliceNull, 0, func() {})
	return finalize(w)
}

// newMessageWriter writes the Payload Descriptor and the fixed-zero
// Multiple Operation Message header fields, leaving the messageSize field
// as a zero placeholder to be patched by finalize.
func newMessageWriter() *bitstream.Writer {
	w := bitstream.New(32)
	_ = w.WriteByte(payloadDescriptor)
	w.WriteBytesMSB(0xFFFF, 2) // reserved

	w.WriteBytesMSB(0, 2) // messageSize placeholder, offsets 3-4

	// protocol_version, AS_index, message_number, DPI_PID_index (all zero
	// in this core — the playout channel never varies them).
	for i := 0; i < 6; i++ {
		_ = w.WriteByte(0)
	}
	_ = w.WriteByte(0) // SCTE35_protocol_version
	_ = w.WriteByte(0) // timestamp.type
	_ = w.WriteByte(1) // num_ops
	return w
}

// writeOp writes the single operation's opID and data_length header fields,
// then invokes body to write the operation's own payload bytes (body is a
// no-op for splice_null, whose data_length is 0).
func writeOp(w *bitstream.Writer, opID OpID, dataLength int, body func()) {
	w.WriteBytesMSB(uint64(opID), 2)
	w.WriteBytesMSB(uint64(dataLength), 2)
	body()
}

// finalize patches the messageSize field — (total_bytes - 1), the -1
// removing the Payload Descriptor byte — and returns the completed buffer.
func finalize(w *bitstream.Writer) []byte {
	w.Finalize()
	buf := w.Bytes()
	size := len(buf) - 1
	buf[3] = byte(size >> 8)
	buf[4] = byte(size)
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
