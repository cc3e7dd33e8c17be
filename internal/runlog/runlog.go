// Package runlog provides the structured, per-run logger ecpridecode
// uses to report packet-level decode failures and run-level milestones.
package runlog

import (
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// DefaultTimestampPattern is the strftime pattern applied to a capture
// record's own timestamp when logging it, independent of logrus's own
// entry timestamp.
const DefaultTimestampPattern = "%Y-%m-%d %H:%M:%S.%f"

// Logger is a run-scoped wrapper around a logrus entry, tagging every
// line with a run correlation id.
type Logger struct {
	entry   *logrus.Entry
	pattern *strftime.Strftime
}

// New builds a Logger carrying a fresh run id in every entry's fields.
func New() *Logger {
	base := logrus.New()
	pattern, err := strftime.New(DefaultTimestampPattern, strftime.WithMicroseconds('f'))
	if err != nil {
		// DefaultTimestampPattern is a fixed, known-valid pattern; this
		// can't fail in practice.
		panic(err)
	}
	return &Logger{
		entry:   base.WithField("run_id", xid.New().String()),
		pattern: pattern,
	}
}

// RecordTimestamp renders a capture record's timestamp with the
// configured strftime pattern, for inclusion in a skip/error log line.
func (l *Logger) RecordTimestamp(t time.Time) string {
	return l.pattern.FormatString(t)
}

// SkipPacket logs a non-fatal, packet-level decode failure: the pc_id
// (when known), the byte offset, and the reason.
func (l *Logger) SkipPacket(pcId *uint16, offset int, reason error) {
	fields := logrus.Fields{"offset": offset, "reason": reason}
	if pcId != nil {
		fields["pc_id"] = *pcId
	}
	l.entry.WithFields(fields).Warn("skipping packet")
}

// Error logs a fatal, run-terminating condition (I/O or format failure).
// It does not exit the process: the caller is expected to unwind and
// return the appropriate exit code from run()/decode(), letting main()
// be the only place that calls os.Exit.
func (l *Logger) Error(err error) {
	l.entry.Error(err)
}

// Infof logs a run-level milestone, e.g. completion counters.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}
