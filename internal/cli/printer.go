package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
)

// printer is the headless dispatcher.View. Log lines are written to errOut
// as they happen; results are kept for the command to print on out.
type printer struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	color  bool

	errors int
	user   models.UserView
	status models.Status
	data   []models.DataItem
	value  *string
}

var _ dispatcher.View = (*printer)(nil)

func newPrinter(out, errOut io.Writer) *printer {
	return &printer{
		out:    out,
		errOut: errOut,
		color:  isTerminal(errOut),
	}
}

// isTerminal reports whether w is a terminal that can take colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) ShowUser(u models.UserView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = u
}

func (p *printer) ShowStatus(s models.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

func (p *printer) ShowData(items []models.DataItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = items
}

func (p *printer) ShowValue(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = &v
}

func (p *printer) AppendLog(e models.LogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Kind == models.LogError {
		p.errors++
	}
	fmt.Fprintln(p.errOut, p.formatEntry(e))
}

// ClearLog is a no-op: printed lines cannot be taken back.
func (p *printer) ClearLog() {}

func (p *printer) formatEntry(e models.LogEntry) string {
	if !p.color {
		return e.String()
	}
	tag := "[" + string(e.Kind) + "]"
	return styleHint.Render(e.Clock()) + " " + logKindStyles[e.Kind].Render(tag) + " " + e.Message
}

// result returns errReported when any error line was logged.
func (p *printer) result() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.errors > 0 {
		return errReported
	}
	return nil
}

func (p *printer) printData() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.data) == 0 {
		fmt.Fprintln(p.out, models.NoDataPlaceholder)
		return
	}
	for _, item := range p.data {
		fmt.Fprintf(p.out, "%s: %s\n", item.Key, item.DisplayValue())
	}
}

func (p *printer) printValue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil {
		fmt.Fprintln(p.out, "null")
		return
	}
	fmt.Fprintln(p.out, *p.value)
}

func (p *printer) printUser(deviceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := newFieldWriter(p.out, "Signed in", "User ID", "Name", "Device")
	f.row("Signed in", p.user.SignedInText())
	f.row("User ID", p.user.UserIDText())
	f.row("Name", p.user.DisplayNameText())
	f.row("Device", deviceID)
}
