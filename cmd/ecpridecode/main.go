// Command ecpridecode decodes a legacy PCAP capture of eCPRI fronthaul
// traffic down to reassembled IQ samples and writes them to a text
// sink. A PCAPNG capture is accepted at open, but none of its records
// are read.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/oranfh/ecpridecode/bitio"
	"github.com/oranfh/ecpridecode/ecpri"
	"github.com/oranfh/ecpridecode/internal/config"
	"github.com/oranfh/ecpridecode/internal/metrics"
	"github.com/oranfh/ecpridecode/internal/runlog"
	"github.com/oranfh/ecpridecode/iqsample"
	"github.com/oranfh/ecpridecode/link"
	"github.com/oranfh/ecpridecode/pcap"
	"github.com/oranfh/ecpridecode/reassembly"
	"github.com/oranfh/ecpridecode/sink"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("ecpridecode", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to an optional YAML configuration overlay")
	outputPath := flags.String("output", "", "output text file path (overrides config/default)")
	mantissa := flags.Uint("mantissa", 0, "compressed IQ mantissa width (overrides config/default)")
	maxPackets := flags.Int("max-packets", 0, "packet budget (overrides config/default)")
	metricsPath := flags.String("metrics-out", "", "optional path to render run metrics to, in Prometheus text format")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] CAPTURE_FILE\n\n", os.Args[0])
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "exactly one argument required (capture file path)\n")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return 2
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *mantissa != 0 {
		cfg.Mantissa = *mantissa
	}
	if *maxPackets != 0 {
		cfg.MaxPacketCount = *maxPackets
	}

	log := runlog.New()
	counts := metrics.New()

	captureFile, err := os.Open(flags.Arg(0))
	if err != nil {
		log.Error(err)
		return 1
	}
	defer captureFile.Close()

	outFile, err := os.Create(cfg.OutputPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer outFile.Close()

	if code := decode(captureFile, outFile, cfg, log, counts); code != 0 {
		return code
	}

	if *metricsPath != "" {
		if err := writeMetrics(*metricsPath, counts); err != nil {
			log.Infof("failed to render metrics: %v", err)
		}
	}

	return 0
}

func decode(captureFile *os.File, outFile *os.File, cfg config.Config, log *runlog.Logger, counts *metrics.Counters) int {
	session, err := pcap.Open(captureFile)
	if err != nil {
		log.Error(err)
		return 1
	}

	reasm := reassembly.NewMap()
	writer := sink.New(outFile)
	defer writer.Close()

	processed := 0
	for processed < cfg.MaxPacketCount {
		record, err := session.Next()
		if errors.Is(err, pcap.ErrEOF) {
			break
		}
		if errors.Is(err, pcap.ErrIncomplete) {
			if rerr := session.Refill(); rerr != nil {
				log.Error(rerr)
				return 1
			}
			break
		}
		if err != nil {
			log.Error(err)
			return 1
		}

		processed++
		counts.PacketsProcessed.Inc()
		ingestRecord(record.Data, cfg.Mantissa, reasm, log, counts)
	}

	entries := reasm.Drain()
	counts.EntriesEmitted.Add(float64(len(entries)))
	if err := writer.WriteAll(entries); err != nil {
		log.Error(err)
		return 1
	}

	return 0
}

func ingestRecord(data []byte, mantissa uint, reasm *reassembly.Map, log *runlog.Logger, counts *metrics.Counters) {
	frame, err := link.Parse(data)
	if err != nil {
		counts.SkipReason("ethernet_truncated")
		return
	}

	switch frame.Type {
	case link.BIP:
		// Decoded structurally for completeness; BIP frames carry no IQ
		// data and are never forwarded to reassembly.
		if _, _, err := ecpri.ParseBIPHeader(bitio.NewCursor(frame.Payload)); err != nil {
			counts.SkipReason("bip_truncated")
			log.SkipPacket(nil, 0, err)
			return
		}
		counts.SkipReason("bip_frame")
		return
	case link.PTP:
		counts.SkipReason("ptp_frame")
		log.Infof("skipping PTPv2 frame")
		return
	case link.Unknown:
		counts.SkipReason("unknown_frame")
		log.Infof("skipping frame with unrecognized EtherType %#04x", frame.Header.EtherType)
		return
	}

	msg, err := ecpri.Parse(frame.Payload, mantissa)
	if err != nil {
		counts.SkipReason(skipReason(err))
		log.SkipPacket(nil, 0, err)
		return
	}

	if msg.UPlane == nil {
		return
	}
	u := msg.UPlane

	key := reassembly.Key{
		PcId:       msg.Common.PcId,
		FrameId:    u.FrameId,
		SubframeId: u.SubframeId,
		SlotId:     u.SlotId,
		SymbolId:   u.StartSymbolId,
	}

	var samples []iqsample.Sample
	for _, prb := range u.PrbBlocks {
		expanded, err := iqsample.Expand(prb.PackedIQ, mantissa, prb.Exponent)
		if err != nil {
			counts.SkipReason("truncated_prb_block")
			log.SkipPacket(&msg.Common.PcId, 0, err)
			return
		}
		samples = append(samples, expanded...)
	}

	counts.EntriesCreated.Inc()
	reasm.Ingest(key, u.Direction, samples)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ecpri.NotEcpri):
		return "not_ecpri"
	case errors.Is(err, ecpri.UnsupportedMessageType):
		return "unsupported_message_type"
	case errors.Is(err, ecpri.UnsupportedSectionType):
		return "unsupported_section_type"
	case errors.Is(err, ecpri.TruncatedPacket):
		return "truncated_packet"
	default:
		return "unknown"
	}
}

func writeMetrics(path string, counts *metrics.Counters) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return counts.Render(io.Writer(f))
}
