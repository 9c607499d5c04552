package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"

	"relq/qna"
	"relq/relevance"
)

func main() {
	qnaPath := flag.String("qna", "", "path to the qna evaluator (overrides config)")
	showTypes := flag.Bool("showtypes", false, "pass -showtypes to qna and open the tokens pane")
	expr := flag.String("e", "", "evaluate one expression and exit")
	logPath := flag.String("log", "", "append debug log to file")
	flag.Parse()

	cfg := LoadConfig()
	if *qnaPath != "" {
		cfg.Qna.Path = *qnaPath
	}
	if *showTypes {
		cfg.Qna.ShowTypes = true
	}

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
		logToFile = true
	}

	client := &qna.Client{
		Path:      cfg.Qna.Path,
		Timeout:   cfg.Qna.Timeout(),
		ShowTypes: cfg.Qna.ShowTypes,
	}

	if *expr != "" {
		os.Exit(evaluateOnce(client, *expr))
	}

	doc := NewDocument()
	if flag.NArg() > 0 {
		var err error
		doc, err = LoadDocument(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
	}

	AccentColor = lipgloss.Color(cfg.Accent)
	styles := NewStyles(colorprofile.Detect(os.Stdout, os.Environ()))

	m := NewModel(cfg, client, doc, styles)
	if cfg.Qna.ShowTypes {
		m.toggleTokensPane()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// evaluateOnce is the -e path: one expression, no transcript, answer on
// stdout. Returns the process exit code.
func evaluateOnce(client *qna.Client, expr string) int {
	doc := NewDocument()
	doc.lines = []string{"Q: " + expr}

	session := NewEvalSession(1, relevance.ExtractQueries(doc.lines))
	records := runAll(client, doc, session)
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "E: no query to evaluate")
		return 1
	}

	rec := records[0]
	code := 0
	for _, line := range rec.Lines {
		if strings.HasPrefix(line, "T:") {
			continue
		}
		if rec.Status == StatusError {
			fmt.Fprintln(os.Stderr, line)
		} else {
			fmt.Println(line)
		}
	}
	if rec.Status == StatusError {
		code = 1
	}
	fmt.Printf("Evaluation time: %s\n", qna.FormatElapsed(rec.Elapsed))
	return code
}
