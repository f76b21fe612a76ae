// Package compose renders the two textual artifacts of a briefing (the
// email body and the spoken narration script) plus the mail subject and
// attachment filename. Everything here is a pure function of the
// request, the snapshot and an injected clock: same inputs, identical
// bytes out.
package compose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/core"
)

const (
	// maxIssues is how many ranked issues the email lists.
	maxIssues = 3
	// titleCutRunes is the hard cut applied to the first issue's title
	// in the narration script. No ellipsis, no word-boundary trimming.
	titleCutRunes = 60
)

// longDateLayout renders dates like "April 5, 2024".
const longDateLayout = "January 2, 2006"

// Fixed copy. Values are substituted into these templates verbatim; the
// surrounding text must not drift.
const (
	emailBodyFormat = `Hi %s,

Thank you for your interest in my Social Listening project!

📊 LATEST NVIDIA GPU SENTIMENT REPORT — %s

Posts analyzed: %d
Overall sentiment: %s (%s/100)

🔥 TOP ISSUES DETECTED:
%s

🎧 I've attached a personalized 30-second audio briefing just for you.

This demo showcases how I built an automated social listening system that:
- Scrapes Reddit & Hacker News for NVIDIA GPU discussions
- Analyzes sentiment and prioritizes issues
- Generates personalized audio briefings using AI text-to-speech
- Delivers insights via automated email

Thanks for checking out my work!

Best regards,
Cory Ziller
https://coryziller.github.io
`

	issueLineFormat = "%d. [%s] %s: %s"

	scriptOpeningFormat  = "Hi %s, this is your 30 second round up for %s. Found %d posts discussing NVIDIA GPU issues. Sentiment: %s."
	scriptTopIssueFormat = " Top issue: %s. %s."
	scriptClosing        = " Check your email for full details."

	subjectFormat        = "🎧 Your Personalized NVIDIA GPU Report — %s"
	attachmentNameFormat = "nvidia_report_%s.mp3"
)

// whitespaceRunPattern matches every run of whitespace in a requester
// name, for the attachment filename.
var whitespaceRunPattern = regexp.MustCompile(`\s+`)

// Briefing renders both artifacts from one request, one snapshot and
// the given moment in time. It performs no I/O.
func Briefing(req core.BriefingRequest, snapshot *core.Snapshot, now time.Time) core.Content {
	date := now.Format(longDateLayout)

	return core.Content{
		EmailBody:   emailBody(req.Name, date, snapshot),
		AudioScript: audioScript(req.Name, date, snapshot),
	}
}

// Subject renders the mail subject line for the given moment in time.
func Subject(now time.Time) string {
	return fmt.Sprintf(subjectFormat, now.Format(longDateLayout))
}

// AttachmentFilename derives the audio attachment name from the
// requester's name, collapsing every whitespace run to one underscore.
func AttachmentFilename(name string) string {
	return fmt.Sprintf(attachmentNameFormat, whitespaceRunPattern.ReplaceAllString(name, "_"))
}

func emailBody(name, date string, snapshot *core.Snapshot) string {
	return fmt.Sprintf(
		emailBodyFormat,
		name,
		date,
		snapshot.TotalPosts,
		snapshot.SentimentStats.OverallLabel,
		formatScore(snapshot.SentimentStats.AverageScore),
		issuesBlock(snapshot.TopIssues),
	)
}

func audioScript(name, date string, snapshot *core.Snapshot) string {
	var script strings.Builder

	script.WriteString(fmt.Sprintf(
		scriptOpeningFormat,
		name,
		date,
		snapshot.TotalPosts,
		snapshot.SentimentStats.OverallLabel,
	))

	if len(snapshot.TopIssues) > 0 {
		first := snapshot.TopIssues[0]
		script.WriteString(fmt.Sprintf(
			scriptTopIssueFormat,
			first.Category,
			cutRunes(first.Title, titleCutRunes),
		))
	}

	script.WriteString(scriptClosing)

	return script.String()
}

// issuesBlock renders at most maxIssues lines in snapshot order. An
// empty snapshot yields an empty block.
func issuesBlock(issues []core.Issue) string {
	if len(issues) > maxIssues {
		issues = issues[:maxIssues]
	}

	lines := make([]string, 0, len(issues))
	for i, issue := range issues {
		lines = append(lines, fmt.Sprintf(
			issueLineFormat,
			i+1,
			strings.ToUpper(issue.Severity),
			issue.Category,
			issue.Title,
		))
	}

	return strings.Join(lines, "\n")
}

// formatScore renders the sentiment score the way the snapshot producer
// wrote it: whole numbers without a decimal point, fractions kept as-is.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// cutRunes hard-cuts a string after limit runes. Counting runes rather
// than bytes keeps a multi-byte character from being split mid-sequence.
func cutRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
