package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/wheelsim/internal/presentation/tui"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolMarkdown(t *testing.T) {
	md := tui.ProtocolMarkdown(domain.Protocol)

	assert.True(t, strings.HasPrefix(md, "# Onboard controller protocol"))
	assert.Contains(t, md, "| IDLE | `{\"State\":\"CONNECTED\"}` | STOPPED \"Waiting for direction\" | STOPPED |")
	assert.Equal(t, len(domain.Protocol)+2, strings.Count(md, "\n|"))
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer("notty", 200)
	require.NoError(t, err)

	out, err := render(tui.ProtocolMarkdown(domain.Protocol))
	require.NoError(t, err)
	assert.Contains(t, out, "Onboard controller protocol")
	assert.Contains(t, out, "Reached requested node")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf)

	p.Sent([]byte(`{"MoveTo":3}`))
	p.Received(domain.Announce(domain.StateStopped, domain.ReasonWaiting), []byte(`{"State":"STOPPED"}`))
	p.Note("connected to %s", "tcp://localhost:5556")
	p.Error(errors.New("boom"))

	// A bytes.Buffer is not a terminal, so no escape sequences are written.
	assert.Equal(t, "BCI  -> {\"MoveTo\":3}\n"+
		"CHAIR <- {\"State\":\"STOPPED\"}\n"+
		"connected to tcp://localhost:5556\n"+
		"error: boom\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\_/\_/`)
	assert.NotContains(t, buf.String(), "\x1b[")
}
