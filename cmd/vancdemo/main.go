// vancdemo drives a scte104.Session the way a playout channel's frame clock
// would: once per simulated video frame, it calls Tick and, whenever a
// splice op falls due, wraps the resulting v210 words into an
// ancillary.Container and a single-packet ST 2038 PES for IP carriage.
//
// Usage:
//
//	go run ./cmd/vancdemo -cmd "OPID=SPLICE,SPLICE_TYPE=START_NORMAL,PRE_ROLL_TIME=8000" -frames 500
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/zsiec/vanc/ancillary"
	"github.com/zsiec/vanc/scte104"
	"github.com/zsiec/vanc/st2038"
	"github.com/zsiec/vanc/vanc"
)

func main() {
	cmd := flag.String("cmd", "OPID=SPLICE_NULL", "SCTE-104 command string")
	fps := flag.Float64("fps", 50, "simulated frame rate")
	frames := flag.Int("frames", 0, "frames to simulate (0 = run until interrupted)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	session, err := scte104.NewSession(*cmd, nil)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	frameDuration := time.Duration(float64(time.Second) / *fps)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	var container ancillary.Container
	var frame int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame++
			if words := session.Tick(); words != nil {
				container.Add(ancillary.TypeSCTE104, words)
				emitPES(words)
				slog.Info("scte-104 op emitted", "frame", frame, "words", len(words), "total_emitted", container.Len())
			}
			if *frames > 0 && frame >= *frames {
				return
			}
		}
	}
}

// emitPES demonstrates wrapping a single frame's VANC words for IP carriage;
// a real inserter would batch this per program rather than per frame.
func emitPES(words []uint32) {
	vancWords := vanc.UnpackY10(words)
	if len(vancWords) > 3 {
		vancWords = vancWords[3:] // drop the ADF words; st2038 lines start at DID
	}
	pes, err := st2038.BuildPESPacket(0, []st2038.Line{{
		LineNumber:       9,
		HorizontalOffset: 0xFFF,
		Words:            vancWords,
	}})
	if err != nil {
		slog.Warn("st2038 PES wrap failed", "error", err)
		return
	}
	slog.Debug("st2038 PES packet built", "bytes", len(pes))
}
