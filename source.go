package main

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"regexp"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"

	"github.com/garbagemule/RecountChatFilter/internal/report"
)

// Stream sources feed chat lines into the program as messages. A source
// runs in its own goroutine and writes to a channel; the model re-arms
// waitForStreamMsg after every delivery.

type streamMsg interface{ isStreamMsg() }

type streamLineMsg struct {
	Channel report.Channel
	Sender  string
	Text    string
}

type streamNoteMsg struct {
	Text string
}

type streamClosedMsg struct {
	Err error
}

func (streamLineMsg) isStreamMsg()   {}
func (streamNoteMsg) isStreamMsg()   {}
func (streamClosedMsg) isStreamMsg() {}

// Stream feeds use one wire shape per line: "[channel] sender: text".
var streamLinePattern = regexp.MustCompile(`^\[(\w+)\]\s+([^:\s]+):\s?(.*)$`)

func parseStreamLine(raw string) (streamLineMsg, bool) {
	m := streamLinePattern.FindStringSubmatch(raw)
	if m == nil {
		return streamLineMsg{}, false
	}
	return streamLineMsg{
		Channel: report.Channel(m[1]),
		Sender:  m[2],
		Text:    m[3],
	}, true
}

// startCommandStream runs command under a pty and feeds its stdout as chat
// lines. A pty keeps line buffering on for programs that check their output
// device.
func startCommandStream(command string, args []string) (<-chan streamMsg, error) {
	cmd := exec.Command(command, args...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}

	ch := make(chan streamMsg)
	go func() {
		defer close(ch)
		defer ptmx.Close()
		feedLines(ptmx, ch, 0)
		ch <- streamClosedMsg{Err: cmd.Wait()}
	}()
	return ch, nil
}

// startFileStream replays a chat log file, paced so reports arrive the way
// a live stream would instead of all inside one tick.
func startFileStream(path string, pace time.Duration) (<-chan streamMsg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	ch := make(chan streamMsg)
	go func() {
		defer close(ch)
		defer f.Close()
		feedLines(f, ch, pace)
		ch <- streamClosedMsg{}
	}()
	return ch, nil
}

func feedLines(r io.Reader, ch chan<- streamMsg, pace time.Duration) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := scanner.Text()
		if raw == "" {
			continue
		}
		if msg, ok := parseStreamLine(raw); ok {
			ch <- msg
		} else {
			ch <- streamNoteMsg{Text: raw}
		}
		if pace > 0 {
			time.Sleep(pace)
		}
	}
}

func waitForStreamMsg(ch <-chan streamMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
