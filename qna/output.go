package qna

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Output is one invocation's stdout and stderr normalised into
// transcript lines, every one carrying an A:, T:, E: or I: marker.
type Output struct {
	Lines   []string
	IsError bool
	HasTime bool
}

// FormatElapsed renders a duration the way timing lines are written
// into the transcript.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", d.Seconds())
}

// Parse normalises raw evaluator output. qna echoes its Q: prompt in
// front of answers and errors, reports times as microsecond counts and
// may print bare text. Unprefixed stdout becomes answer lines and
// stderr becomes error lines, so everything spliced into a transcript
// carries a marker and can be stripped out again later.
func Parse(res *Result) Output {
	var out Output
	for _, raw := range strings.Split(res.Stdout, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Q: "); ok {
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}
		switch {
		case strings.HasPrefix(line, "A: "), line == "A:":
			out.Lines = append(out.Lines, line)
		case strings.HasPrefix(line, "I: "), line == "I:":
			out.Lines = append(out.Lines, line)
		case strings.HasPrefix(line, "E: "), line == "E:":
			out.Lines = append(out.Lines, line)
			out.IsError = true
		case strings.HasPrefix(line, "T: "):
			out.Lines = append(out.Lines, formatTimeLine(line))
			out.HasTime = true
		default:
			out.Lines = append(out.Lines, "A: "+line)
		}
	}
	for _, raw := range strings.Split(res.Stderr, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		out.Lines = append(out.Lines, "E: "+line)
		out.IsError = true
	}
	if res.ExitCode != 0 {
		if !out.IsError {
			out.Lines = append(out.Lines, fmt.Sprintf("E: evaluator exited with status %d", res.ExitCode))
		}
		out.IsError = true
	}
	return out
}

// formatTimeLine converts a microsecond count to the transcript's
// timing format, leaving anything unrecognised alone.
func formatTimeLine(line string) string {
	val := strings.TrimSpace(strings.TrimPrefix(line, "T: "))
	us, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return line
	}
	return "T: " + FormatElapsed(time.Duration(us*1000)*time.Nanosecond)
}
