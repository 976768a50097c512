package reporting

import (
	"html/template"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

const htmlHeaderTemplate = `<!doctype html><html><head><meta charset="utf-8">
<title>{{.Name}}</title>
<style type="text/css">
  body { font-family: 'Helvetica', sans-serif; max-width: 900px; margin: auto; background-color: #555; padding: 1em; }
  h1 { text-align: center; border-bottom: 2px dashed black; }
  div#content { padding: 1em 2em; background-color: #eee; box-shadow: 0 0 5px #333; }
  div.test { position: relative; margin: 2em 0; }
  div.output:not(:empty) { margin: 1em; border: 2pt solid #999; }
  h2 { font-size: 15pt; padding: 0.2em; border-bottom: 2pt solid grey; color: white; background-color: black; }
  h2.passed { background-color: darkgreen; }
  h2.failed { background-color: darkred; }
  h2.aborted { background-color: black; }
  div.log-item { line-height: 22pt; }
  div.log-item:nth-child(even) { background-color: white; }
  div.log-item:nth-child(odd) { background-color: #eee; }
  div.pass { color: darkgreen; }
  div.fail { color: darkred; }
  span.line-nr { color: black; background-color: rgb(200,200,200); border-right: 3px solid #999;
    padding-right: 0.5em; width: 3em; margin-right: 1em; text-align: right;
    font-family: monospace; display: inline-block; }
  span.abort-msg { background-color: black; color: white; }
  code { background-color: darkgreen; color: white; padding: 0.1em 0.5em; border-radius: 0.5em; }
  .log-item.fail code { background-color: darkred; }
  .log-item.message code { color: black; background-color: yellow; }
  .result-badge { position: absolute; top: 0; right: 0; padding: 0.5em; color: white; }
</style></head><body><div id="content">
<h1>{{.Name}}</h1>
<p>Run {{.RunID}}, generated at <time>{{.Generated}}</time>.</p>
`

const htmlItemTemplate = `<div class="log-item {{.Class}}"><span class="line-nr">{{.Line}}</span>{{.Label}}{{if .Expr}} <code>{{.Expr}}</code>{{end}}{{if .Detail}} {{.Detail}}{{if .Got}} (got <code>{{.Got}}</code>){{end}}{{end}}</div>
`

const htmlTestHeaderTemplate = `<div class="test" id="test{{.Index}}">
<h2 class="{{.Class}}">Test {{.Index}}: <span class="test-title">{{.Name}}</span></h2>
<p>In file <span class="test-file">{{.File}}</span></p>
<div class="output">
`

const htmlTestFooterTemplate = `</div><div class="result-badge">{{.Badge}}</div>
<p><strong>Passed / failed assertions: {{.Passes}} / {{.Fails}}</strong></p></div>
`

const htmlFooterTemplate = `<h2>Summary</h2>
<p>Total passed assertions: {{.Passes}}</p>
<p>Total failed assertions: {{.Fails}}</p>
<p>Success rate: {{printf "%.1f" .Rate}}%</p>
<p>Suite duration: {{.Duration}}</p>
</div></body></html>
`

// HTMLReporter streams a styled HTML document: header on suite start, one
// log row per event, a result badge per test, and a summary on suite end.
type HTMLReporter struct {
	NoopReporter
	w    io.Writer
	tmpl *template.Template
}

// NewHTMLReporter creates an HTML renderer writing to w.
func NewHTMLReporter(w io.Writer) *HTMLReporter {
	t := template.New("header")
	template.Must(t.Parse(htmlHeaderTemplate))
	template.Must(t.New("item").Parse(htmlItemTemplate))
	template.Must(t.New("testheader").Parse(htmlTestHeaderTemplate))
	template.Must(t.New("testfooter").Parse(htmlTestFooterTemplate))
	template.Must(t.New("footer").Parse(htmlFooterTemplate))
	return &HTMLReporter{w: w, tmpl: t}
}

var _ Reporter = (*HTMLReporter)(nil)

type htmlItem struct {
	Class  string
	Line   string
	Label  string
	Expr   string
	Detail string
	Got    string
}

func (h *HTMLReporter) exec(name string, data any) {
	if err := h.tmpl.ExecuteTemplate(h.w, name, data); err != nil {
		log.Error("html reporter: template execution failed", "template", name, "err", err)
	}
}

func (h *HTMLReporter) item(it htmlItem) {
	h.exec("item", it)
}

func (h *HTMLReporter) OnSuiteStart(sum types.SuiteSummary) {
	h.exec("header", struct {
		Name      string
		RunID     string
		Generated string
	}{sum.Name, sum.RunID, time.Now().Format("2006-01-02 15:04:05")})
}

func (h *HTMLReporter) OnSuiteEnd(sum types.SuiteSummary) {
	rate := 0.0
	if total := sum.Total.Total(); total > 0 {
		rate = float64(sum.Total.Passes) / float64(total) * 100
	}
	h.exec("footer", struct {
		Passes   int
		Fails    int
		Rate     float64
		Duration time.Duration
	}{sum.Total.Passes, sum.Total.Fails, rate, sum.Duration.Truncate(time.Millisecond)})
}

func (h *HTMLReporter) OnTestHeader(test *types.Test) {
	h.exec("testheader", struct {
		Index int
		Name  string
		File  string
		Class string
	}{test.Index, test.Name, test.File, ""})
}

func (h *HTMLReporter) OnTestFooter(test *types.Test, stats types.TestStats) {
	badge := "✓"
	switch types.StatusFor(stats, test.Aborted) {
	case types.TestStatusFail:
		badge = "×"
	case types.TestStatusAborted:
		badge = "╳"
	}
	h.exec("testfooter", struct {
		Badge  string
		Passes int
		Fails  int
	}{badge, stats.Passes, stats.Fails})
}

func (h *HTMLReporter) OnTestAborted(line int, reason string) {
	h.item(htmlItem{Class: "abort", Line: lineNr(line), Label: "↳ Test aborted:", Detail: reason})
}

func (h *HTMLReporter) OnPassedCheck(line int, expr string) {
	h.item(htmlItem{Class: "pass check", Line: lineNr(line), Label: "Passed check:", Expr: expr})
}

func (h *HTMLReporter) OnPassedPanic(line int, expr string) {
	h.item(htmlItem{Class: "pass panic", Line: lineNr(line), Label: "Passed panic check:", Expr: expr})
}

func (h *HTMLReporter) OnPassedEquals(line int, expr, value string) {
	h.item(htmlItem{Class: "pass equals", Line: lineNr(line), Label: "Passed equals:", Expr: expr, Detail: "== " + value})
}

func (h *HTMLReporter) OnFailedCheck(line int, expr string) {
	h.item(htmlItem{Class: "fail broken-assertion", Line: lineNr(line), Label: "Failed check:", Expr: expr})
}

func (h *HTMLReporter) OnFailedPanic(line int, expr string) {
	h.item(htmlItem{Class: "fail no-panic", Line: lineNr(line), Label: "Expected panic:", Expr: expr})
}

func (h *HTMLReporter) OnFailedEquals(line int, expr, want, got string) {
	h.item(htmlItem{Class: "fail unexpected-value", Line: lineNr(line), Label: "Failed equals:", Expr: expr, Detail: "!= " + want, Got: got})
}

func (h *HTMLReporter) OnUnexpectedPanic(line int, expr, msg string) {
	h.item(htmlItem{Class: "fail unexpected-panic", Line: lineNr(line), Label: "Caught panic:", Expr: expr, Detail: msg})
}

func (h *HTMLReporter) OnManualFailure(line int, reason string) {
	h.item(htmlItem{Class: "fail manual", Line: lineNr(line), Label: "Manual failure:", Detail: reason})
}

func (h *HTMLReporter) OnMessage(line int, text string) {
	h.item(htmlItem{Class: "message", Line: lineNr(line), Label: text})
}

func (h *HTMLReporter) OnExprValue(line int, expr, value string) {
	h.item(htmlItem{Class: "message expr", Line: lineNr(line), Label: "Print expression", Expr: expr, Detail: "evaluates to " + value})
}
