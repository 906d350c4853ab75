package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/wheelsim/internal/presentation/tui"
	"github.com/aretw0/wheelsim/pkg/codec"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
)

// DefaultReplyPoll is how often the console checks for replies.
const DefaultReplyPoll = 50 * time.Millisecond

var (
	// ErrQuit ends a console session.
	ErrQuit = errors.New("quit")
	// ErrUnknownCommand is returned for lines that are neither a command nor JSON.
	ErrUnknownCommand = errors.New("unknown command")
)

// ConsoleHelp lists the console commands.
const ConsoleHelp = `commands:
  connect [reason]   announce the BCI ({"State":"CONNECTED"})
  move <node>        request a destination ({"MoveTo":node})
  stop [reason]      stop the chair ({"State":"STOP"})
  {...}              send a raw JSON message
  help               show this help
  quit               leave the console`

// ParseCommand turns a console line into the bytes to send.
// An empty line yields nil.
func ParseCommand(line string) ([]byte, error) {
	line, err := SanitizeInput(line)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	if strings.HasPrefix(line, "{") {
		return []byte(line), nil
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "connect":
		if rest == "" {
			rest = "BCI ready"
		}
		return codec.EncodeCommand(domain.Inbound{State: domain.BCIConnected, Reason: rest}), nil
	case "move", "moveto", "go":
		node, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("move needs an integer node, got %q", rest)
		}
		return codec.EncodeCommand(domain.Inbound{MoveTo: domain.IntPtr(node)}), nil
	case "stop":
		return codec.EncodeCommand(domain.Inbound{State: domain.BCIStop, Reason: rest}), nil
	case "quit", "exit":
		return nil, ErrQuit
	}
	return nil, fmt.Errorf("%w: %q (type help)", ErrUnknownCommand, verb)
}

// Console is an interactive BCI peer.
type Console struct {
	transport ports.Transport
	printer   *tui.Printer
	poll      time.Duration
}

// NewConsole creates a console that prints traffic to w.
func NewConsole(transport ports.Transport, w io.Writer, poll time.Duration) *Console {
	if poll <= 0 {
		poll = DefaultReplyPoll
	}
	return &Console{transport: transport, printer: tui.NewPrinter(w), poll: poll}
}

// Run reads commands from in until EOF, quit or cancellation, printing replies as they
// arrive. It fails only when the transport does.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- c.listen(ctx)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-listenErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return c.flush(ctx)
			}
			err := c.Execute(ctx, line)
			switch {
			case errors.Is(err, ErrQuit):
				return nil
			case errors.Is(err, domain.ErrTransportClosed):
				return err
			case err != nil:
				c.printer.Error(err)
			}
		}
	}
}

// Execute handles one console line.
func (c *Console) Execute(ctx context.Context, line string) error {
	if strings.EqualFold(strings.TrimSpace(line), "help") {
		c.printer.Note("%s", ConsoleHelp)
		return nil
	}
	payload, err := ParseCommand(line)
	if err != nil || payload == nil {
		return err
	}
	if err := c.transport.Send(ctx, payload); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	c.printer.Sent(payload)
	return nil
}

func (c *Console) listen(ctx context.Context) error {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		if err := c.drain(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// flush gives in-flight replies one more poll after the input ends.
func (c *Console) flush(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-time.After(2 * c.poll):
	}
	return nil
}

func (c *Console) drain(ctx context.Context) error {
	for {
		payload, err := c.transport.TryReceive(ctx)
		if errors.Is(err, domain.ErrTransportEmpty) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		msg, err := codec.DecodeReply(payload)
		if err != nil {
			c.printer.Error(err)
			continue
		}
		c.printer.Received(msg, payload)
	}
}
