package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/gingfrederik/docx"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

const (
	title     = "Gas Volume Analyst Report"
	separator = "--------------------------------------------------"

	colorMuted  = "808080"
	colorLink   = "0000FF"
	colorAlert  = "C00000"
	colorAccent = "008000"
)

// ContentType is the MIME type of the exported file
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// History provides the conversation to export
type History interface {
	History(ctx context.Context, limit int) ([]chat.Message, error)
}

// Summarizer writes an executive summary of a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Service renders chat transcripts as DOCX reports
type Service struct {
	history    History
	summarizer Summarizer
	now        func() time.Time
	log        *logger.Logger
}

// NewService creates the report service. summarizer may be nil.
func NewService(history History, summarizer Summarizer, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		history:    history,
		summarizer: summarizer,
		now:        clock,
		log:        logger.Get().With("component", "report"),
	}
}

// Export renders the last limit messages. A failing summary is left out of
// the report rather than failing the export.
func (s *Service) Export(ctx context.Context, limit int) ([]byte, error) {
	messages, err := s.history.History(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "load chat history")
	}

	summary := ""
	if s.summarizer != nil && len(messages) > 0 {
		summary, err = s.summarizer.Summarize(ctx, Transcript(messages))
		if err != nil {
			s.log.Warnw("Report summary unavailable", "error", err)
			summary = ""
		}
	}

	f := Render(messages, summary, s.now())
	out, err := encode(f)
	if err != nil {
		return nil, err
	}

	s.log.Infow("Exported chat report", "messages", len(messages), "bytes", len(out), "summary", summary != "")
	return out, nil
}

// Render builds the report document
func Render(messages []chat.Message, summary string, now time.Time) *docx.File {
	f := docx.NewFile()

	f.AddParagraph().AddText(title).Size(20)
	f.AddParagraph().AddText(fmt.Sprintf("Generated %s | %s", now.Format("2 Jan 2006 15:04 MST"),
		english.Plural(len(messages), "message", "messages"))).Size(10).Color(colorMuted)
	f.AddParagraph()

	if summary != "" {
		f.AddParagraph().AddText("Executive Summary").Size(16)
		f.AddParagraph().AddText(summary)
		f.AddParagraph().AddText(separator)
	}

	if len(messages) == 0 {
		f.AddParagraph().AddText("No analyst conversation recorded yet.")
		return f
	}

	for _, msg := range messages {
		heading := f.AddParagraph().AddText(fmt.Sprintf("%s | %s", roleLabel(msg.Role), msg.Timestamp.Format("2 Jan 2006 15:04")))
		heading.Size(12)
		if msg.Error {
			heading.Color(colorAlert)
		}

		for _, block := range strings.Split(msg.Content, "\n\n") {
			block = strings.TrimSpace(strings.ReplaceAll(block, "**", ""))
			if block != "" {
				f.AddParagraph().AddText(block)
			}
		}

		if len(msg.Insights) > 0 {
			f.AddParagraph().AddText("Correlated insights:").Size(11)
			for _, in := range msg.Insights {
				f.AddParagraph().AddText(fmt.Sprintf("- %s (impact %s/10, confidence %d%%)",
					in.Title, templates.Signed(in.ImpactScore), in.Confidence)).Color(colorAccent)
			}
		}

		if len(msg.Sources) > 0 {
			f.AddParagraph().AddText("Sources:").Size(11)
			for _, src := range msg.Sources {
				f.AddParagraph().AddText(fmt.Sprintf("- %s (%s, %s)", src.Title, src.Source, src.PublishedDate)).Size(10)
				if src.URL != "" && src.URL != "#" {
					f.AddParagraph().AddText(src.URL).Size(10).Color(colorLink)
				}
			}
		}

		f.AddParagraph().AddText(separator)
	}

	return f
}

// Transcript flattens messages into "Role: content" lines for summarizing
func Transcript(messages []chat.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(roleLabel(msg.Role))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(msg.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func roleLabel(role chat.Role) string {
	if role == chat.RoleUser {
		return "Question"
	}
	return "Analyst"
}

// encode writes the document through a temporary file, the only output
// the docx writer offers
func encode(f *docx.File) ([]byte, error) {
	dir, err := os.MkdirTemp("", "gasnadir-report-*")
	if err != nil {
		return nil, errors.Wrap(err, "create report dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.docx")
	if err := f.Save(path); err != nil {
		return nil, errors.Wrap(err, "save report")
	}
	out, err := os.ReadFile(path)
	return out, errors.Wrap(err, "read report")
}
