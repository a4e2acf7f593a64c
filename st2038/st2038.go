// Package st2038 wraps VANC word streams into a single SMPTE ST 2038
// Packetized Elementary Stream packet for carriage over IP/MPEG-TS, the way
// ST 2038 receivers expect ANC data to travel alongside a program's video
// and audio elementary streams. It covers exactly one PES packet's worth of
// ANC lines; splitting ANC data across multiple transport-stream packets,
// and the PAT/PMT plumbing needed to actually multiplex a program, are out
// of scope (see SPEC_FULL.md §D).
package st2038

import (
	"fmt"

	"github.com/zsiec/vanc/bitstream"
)

// privateStream1 is the PES stream_id ST 2038 carriage conventionally uses
// for ancillary data elementary streams.
const privateStream1 = 0xBD

// ptsOnlyPrefix is the 4-bit marker prefix for a PES optional header whose
// only timestamp is a PTS (no DTS).
const ptsOnlyPrefix = 0x2

// Line is one ANC_data_packet: a VANC payload (DID through its checksum
// word, as produced by vanc.Packetize — no ADF) located at a specific video
// line and, optionally, a horizontal sample offset.
type Line struct {
	// Chroma is the ST 2038 "c" bit: false selects the luma (or 4:2:2
	// luma-plus-chroma) data stream, true selects a chroma-only stream.
	Chroma bool

	// LineNumber is the video line this ANC packet belongs to (11 bits).
	LineNumber uint16

	// HorizontalOffset is the sample offset within the line (12 bits).
	// 0xFFF means "no specific word position".
	HorizontalOffset uint16

	// Words is the VANC payload starting at DID, through the trailing
	// checksum word, each holding a 10-bit value in its low bits (this is
	// exactly vanc.Packetize's output with the 3-word ADF stripped).
	Words []uint16
}

const (
	lineNumberBits = 11
	hOffsetBits    = 12
	horizOffsetAny = 0xFFF
)

// packAncDataPacket serializes one Line per SMPTE ST 2038 §5.1: 6 reserved
// zero bits, the c bit, line_number, horizontal_offset, then each VANC word
// at 10 bits, finally zero-padded out to a byte boundary.
func packAncDataPacket(l Line) []byte {
	w := bitstream.New(4 + 2*len(l.Words))
	w.WriteBits(0, 6)
	if l.Chroma {
		w.WriteBit(1)
	} else {
		w.WriteBit(0)
	}
	w.WriteBits(uint64(l.LineNumber), lineNumberBits)
	w.WriteBits(uint64(l.HorizontalOffset), hOffsetBits)
	for _, word := range l.Words {
		w.WriteBits(uint64(word), 10)
	}
	w.Finalize()
	return w.Bytes()
}

// BuildPESPacket wraps lines into a single PES packet carrying a PTS
// timestamp (a 90kHz clock value, 33 bits significant). It returns an error
// if the resulting packet would exceed the 16-bit PES_packet_length field —
// callers needing more ANC data than that must split across multiple PES
// packets, which this package does not do.
func BuildPESPacket(pts uint64, lines []Line) ([]byte, error) {
	var payload []byte
	for _, l := range lines {
		payload = append(payload, packAncDataPacket(l)...)
	}

	const optionalHeaderLen = 1 + 1 + 1 + 5 // flags byte, flags byte, header_data_length byte, PTS
	packetLength := optionalHeaderLen + len(payload)
	if packetLength > 0xFFFF {
		return nil, fmt.Errorf("st2038: PES payload of %d bytes exceeds a single packet's 16-bit length field", packetLength)
	}

	out := make([]byte, 0, 6+optionalHeaderLen+len(payload))
	out = append(out, 0x00, 0x00, 0x01, privateStream1)
	out = append(out, byte(packetLength>>8), byte(packetLength))

	out = append(out, 0x80) // '10' marker, no scrambling/priority/alignment/copyright/original
	out = append(out, 0x80) // PTS_DTS_indicator = '10' (PTS only)
	out = append(out, 5)    // PES_header_data_length

	ptsBytes := packPTS(pts, ptsOnlyPrefix)
	out = append(out, ptsBytes[:]...)

	out = append(out, payload...)
	return out, nil
}

// packPTS is the inverse of mpegts.parsePTSOrDTS: it encodes a 33-bit
// timestamp into the standard 5-byte PES PTS/DTS wire format, with prefix as
// the leading 4-bit marker (0x2 for PTS-only, 0x3 for the first of a
// PTS+DTS pair, 0x1 for the DTS half).
func packPTS(pts uint64, prefix byte) [5]byte {
	var b [5]byte
	b[0] = (prefix << 4) | byte((pts>>30)&0x07)<<1 | 1
	b[1] = byte(pts >> 22)
	b[2] = byte((pts>>15)&0x7F)<<1 | 1
	b[3] = byte(pts >> 7)
	b[4] = byte(pts&0x7F)<<1 | 1
	return b
}
