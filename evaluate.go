package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"relq/qna"
	"relq/relevance"
)

// Evaluator is the one call a session needs from the qna client.
type Evaluator interface {
	Invoke(query string) (*qna.Result, error)
}

// RecordStatus classifies one evaluated query.
type RecordStatus int

const (
	StatusAnswer RecordStatus = iota
	StatusError
)

// ResultRecord is the outcome of one query: the lines spliced into the
// document and where the query ended up after earlier splices shifted
// the text around.
type ResultRecord struct {
	Query   relevance.QueryLine
	Status  RecordStatus
	Lines   []string
	Elapsed time.Duration
	Line    int
}

// EvalSession walks a batch of queries one at a time, in document
// order. The generation number ties asynchronous results back to the
// session that asked for them; anything arriving for an older
// generation is dropped. Cancelling lets the in-flight call finish and
// stops before the next one starts.
type EvalSession struct {
	gen       int
	queries   []relevance.QueryLine
	next      int
	offset    int
	cancelled bool
	records   []ResultRecord
}

func NewEvalSession(gen int, queries []relevance.QueryLine) *EvalSession {
	return &EvalSession{gen: gen, queries: queries}
}

// Current returns the next query to run.
func (s *EvalSession) Current() (relevance.QueryLine, bool) {
	if s.cancelled || s.next >= len(s.queries) {
		return relevance.QueryLine{}, false
	}
	return s.queries[s.next], true
}

func (s *EvalSession) Cancel() { s.cancelled = true }

func (s *EvalSession) Done() bool {
	return s.cancelled || s.next >= len(s.queries)
}

func (s *EvalSession) Cancelled() bool { return s.cancelled }

// Progress reports how many queries have finished out of how many.
func (s *EvalSession) Progress() (done, total int) {
	return s.next, len(s.queries)
}

func (s *EvalSession) Records() []ResultRecord { return s.records }

// insertAt is the document line the next query's output will land
// under, after the lines earlier results already inserted.
func (s *EvalSession) insertAt() int {
	return s.queries[s.next].EndLine + s.offset
}

// Apply classifies one invocation and splices its lines into the
// document directly below the query. An error from the evaluator
// becomes an E: line and the session moves on; one broken query never
// stops the rest of the batch.
func (s *EvalSession) Apply(doc *Document, res *qna.Result, err error) ResultRecord {
	q := s.queries[s.next]
	at := s.insertAt()
	s.next++

	var out qna.Output
	if err != nil {
		out = qna.Output{Lines: []string{"E: " + err.Error()}, IsError: true}
		if res != nil {
			out.Lines = append(out.Lines, "T: "+qna.FormatElapsed(res.Elapsed))
		}
	} else {
		out = qna.Parse(res)
		if !out.HasTime {
			out.Lines = append(out.Lines, "T: "+qna.FormatElapsed(res.Elapsed))
		}
	}

	rec := ResultRecord{
		Query:  q,
		Status: StatusAnswer,
		Lines:  out.Lines,
		Line:   q.Line + s.offset,
	}
	if out.IsError {
		rec.Status = StatusError
	}
	if res != nil {
		rec.Elapsed = res.Elapsed
	}

	before := doc.LineCount()
	doc.SpliceResults(at, out.Lines)
	s.offset += doc.LineCount() - before

	s.records = append(s.records, rec)
	return rec
}

// queryResultMsg carries one finished invocation back to the update
// loop.
type queryResultMsg struct {
	gen int
	res *qna.Result
	err error
}

// invokeNext runs the session's next query on the evaluator. Only the
// process call happens off the update loop; the splice waits for the
// message, which keeps document edits single-threaded.
func invokeNext(ev Evaluator, s *EvalSession) tea.Cmd {
	q, ok := s.Current()
	if !ok {
		return nil
	}
	gen := s.gen
	return func() tea.Msg {
		res, err := ev.Invoke(q.Text)
		return queryResultMsg{gen: gen, res: res, err: err}
	}
}

// runAll drives a session to completion serially. The one-shot mode
// uses this; the TUI walks the same session through invokeNext.
func runAll(ev Evaluator, doc *Document, s *EvalSession) []ResultRecord {
	for {
		q, ok := s.Current()
		if !ok {
			return s.records
		}
		res, err := ev.Invoke(q.Text)
		s.Apply(doc, res, err)
	}
}
