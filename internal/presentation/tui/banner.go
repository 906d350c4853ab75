package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the wheelsim banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`           _               _     _           `, "#818cf8"},
		{` __      _| |__   ___  ___| |___(_)_ __ ___  `, "#a78bfa"},
		{` \ \ /\ / / '_ \ / _ \/ _ \ / __| | '_ ` + "`" + ` _ \ `, "#c084fc"},
		{`  \ V  V /| | | |  __/  __/ \__ \ | | | | | |`, "#e879f9"},
		{`   \_/\_/ |_| |_|\___|\___|_|___/_|_| |_| |_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Printer formats protocol traffic for a terminal. Safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// NewPrinter creates a Printer; colors are dropped when w is not a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, out: termenv.NewOutput(w)}
}

// Sent prints a message going to the controller.
func (p *Printer) Sent(payload []byte) {
	arrow := p.out.String("BCI  ->").Foreground(p.out.Color("#60a5fa")).Bold()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", arrow, payload)
}

// Received prints a message coming from the controller.
func (p *Printer) Received(msg domain.Outbound, payload []byte) {
	arrow := p.out.String("CHAIR <-").Foreground(p.out.Color(stateColor(msg.State))).Bold()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", arrow, payload)
}

// Note prints an informational line.
func (p *Printer) Note(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.out.String(fmt.Sprintf(format, args...)).Faint())
}

// Error prints a problem without stopping the session.
func (p *Printer) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.out.String("error: "+err.Error()).Foreground(p.out.Color("#f87171")))
}

func stateColor(state string) string {
	switch domain.StateID(state) {
	case domain.StateMoving:
		return "#facc15"
	case domain.StateFinished:
		return "#4ade80"
	case domain.StateStopped:
		return "#f472b6"
	}
	return "#a3a3a3"
}
