// Package server dispatches slash commands through a static handler table,
// producing private reply text from registry and log state.
package server

import (
	"strconv"
	"strings"
	"time"
)

const (
	cmdUsers  = "/users"
	cmdHelp   = "/help"
	cmdLog    = "/log"
	cmdQuit   = "/quit"
	cmdUptime = "/uptime"

	// defaultLogDepth bounds a bare /log reply.
	defaultLogDepth = 20
)

// helpReply lists every recognized command, /quit included even though it is
// handled by the session rather than the processor.
const helpReply = "/users, /help, /log, /quit, /uptime"

// CommandProcessor computes command replies from shared state. It performs
// no registry mutations itself; /quit never reaches it.
type CommandProcessor struct {
	registry *Registry
	msglog   *MessageLog
	started  time.Time

	handlers map[string]func(arg string) string
}

// NewCommandProcessor builds the processor with its closed command table.
// started is the server start time reported by /uptime.
func NewCommandProcessor(registry *Registry, msglog *MessageLog, started time.Time) *CommandProcessor {
	p := &CommandProcessor{
		registry: registry,
		msglog:   msglog,
		started:  started,
	}
	p.handlers = map[string]func(arg string) string{
		cmdUsers:  p.users,
		cmdHelp:   p.help,
		cmdLog:    p.log,
		cmdUptime: p.uptime,
	}
	return p
}

// Reply resolves name against the command table and returns the reply text.
// ok is false when name is not a recognized command, in which case the line
// is ordinary chat text.
func (p *CommandProcessor) Reply(name, arg string) (reply string, ok bool) {
	handler, ok := p.handlers[name]
	if !ok {
		return "", false
	}
	return handler(arg), true
}

func (p *CommandProcessor) users(string) string {
	return strings.Join(p.registry.Names(), ", ")
}

func (p *CommandProcessor) help(string) string {
	return helpReply
}

func (p *CommandProcessor) log(arg string) string {
	depth := defaultLogDepth
	if arg != "" {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			depth = n
		}
	}
	return strings.Join(p.msglog.Tail(depth), "\n")
}

func (p *CommandProcessor) uptime(string) string {
	return p.started.Format(time.RFC1123Z)
}

// splitCommand separates the leading command token from its argument. Lines
// not starting with "/" are never commands.
func splitCommand(line string) (name, arg string) {
	if !strings.HasPrefix(line, "/") {
		return "", ""
	}
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
