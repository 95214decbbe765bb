package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// defaultLevel is used when MARISA_LOG_LEVEL is unset or unparseable.
// Build and query diagnostics are chatty at Debug, so Info keeps a batch
// CLI run quiet by default; set MARISA_LOG_LEVEL=debug to see them.
const defaultLevel = logrus.InfoLevel

func init() {
	level := defaultLevel
	if raw := os.Getenv("MARISA_LOG_LEVEL"); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	logrus.SetLevel(level)
	logrus.StandardLogger().Formatter.(*logrus.TextFormatter).ForceColors = true
	logrus.AddHook(new(TaggedHook))
}

// NewLogger returns an Entry that prefixes every line with "[tag]",
// one Entry per component (trie, build, cli) rather than a single
// package-wide logger.
func NewLogger(tag string) *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger()).WithField("tag", tag)
}

// TaggedHook rewrites a "tag" field into a "[tag]: " message prefix so
// tagged entries read the same whether or not the caller also repeated
// the tag inside the message text itself.
type TaggedHook struct{}

func (h *TaggedHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TaggedHook) Fire(entry *logrus.Entry) error {
	tagObj, loaded := entry.Data["tag"]
	if !loaded {
		return nil
	}
	tag, ok := tagObj.(string)
	if !ok {
		return nil
	}
	delete(entry.Data, "tag")
	entry.Message = strings.TrimPrefix(entry.Message, tag+": ")
	entry.Message = "[" + tag + "]: " + entry.Message
	return nil
}
