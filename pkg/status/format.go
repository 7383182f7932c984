package status

import (
	"fmt"
)

// 🎨 Message layout
const (
	MsgProgress   = "%s Progress: %d/%d (%.0f%%)"
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
)

// Op is what happened to one entry.
type Op string

const (
	OpStaged  Op = "staged"
	OpCopied  Op = "copied"
	OpMoved   Op = "moved"
	OpTrashed Op = "trashed"
	OpRenamed Op = "renamed"
	OpSkipped Op = "skipped"
)

// Formatter defines how entry operations and progress are rendered
type Formatter interface {
	// FormatEntryOperation formats the outcome for one entry
	FormatEntryOperation(path string, op Op, err error) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatEntryOperation formats an entry outcome with emojis
func (f *DefaultFormatter) FormatEntryOperation(path string, op Op, err error) string {
	if err != nil {
		return fmt.Sprintf("❌ Failed %s: %v", path, err)
	}
	switch op {
	case OpStaged:
		return fmt.Sprintf("📋 Staged %s", path)
	case OpCopied:
		return fmt.Sprintf("✨ Copied %s", path)
	case OpMoved:
		return fmt.Sprintf("🚚 Moved %s", path)
	case OpTrashed:
		return fmt.Sprintf("🗑️  Trashed %s", path)
	case OpRenamed:
		return fmt.Sprintf("📝 Renamed %s", path)
	default:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	current = max(current, 0)
	total = max(total, 0)

	var percentage float64
	if total > 0 {
		percentage = min(float64(current)/float64(total)*100, 100)
	}

	emoji := EmojiProgress
	if current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
