package main

import (
	"strings"
	"time"
)

// Prefixes of the two text-input grammars.
const (
	commandPrefix = ":"
	searchPrefix  = "/"
)

// How long transient output stays on screen.
const messageDuration = time.Second

type outputType int

const (
	outputNone outputType = iota
	outputSuccess
	outputWarning
	outputFailure
	outputAction
)

func (o outputType) String() string {
	switch o {
	case outputSuccess:
		return "(i) "
	case outputWarning:
		return "(w) "
	case outputFailure:
		return "(e) "
	default:
		return ""
	}
}

func parseOutputType(s string) outputType {
	switch strings.ToLower(s) {
	case "success":
		return outputSuccess
	case "warning":
		return outputWarning
	case "failure":
		return outputFailure
	case "action":
		return outputAction
	}
	return outputNone
}

// prompt is the single text line at the bottom of the screen: command
// or search input while a prefix is active, transient output otherwise.
type prompt struct {
	text       string
	outputType outputType
	// setAt tracks when transient output appeared, for timed clearing
	// on ticks. Zero while input is active.
	setAt time.Time

	history      []string
	historyIndex int
}

// enable starts text input with the given prefix and optional prefill.
func (p *prompt) enable(prefix, prefill string) {
	p.text = prefix + prefill
	p.outputType = outputNone
	p.setAt = time.Time{}
	p.historyIndex = 0
}

// isInput reports whether the prompt currently holds editable input.
func (p *prompt) isInput() bool {
	return p.text != "" && p.setAt.IsZero()
}

func (p *prompt) isSearch() bool {
	return p.isInput() && strings.HasPrefix(p.text, searchPrefix)
}

func (p *prompt) isCommand() bool {
	return p.isInput() && strings.HasPrefix(p.text, commandPrefix)
}

// searchQuery returns the active filter term, empty when not searching.
func (p *prompt) searchQuery() string {
	if !p.isSearch() {
		return ""
	}
	return strings.TrimPrefix(p.text, searchPrefix)
}

func (p *prompt) typeRune(r rune) {
	p.text += string(r)
}

func (p *prompt) backspace() {
	if runes := []rune(p.text); len(runes) > 1 {
		p.text = string(runes[:len(runes)-1])
		return
	}
	// Deleting the prefix cancels the input.
	p.clear()
}

// remember pushes a submitted command onto the history stack.
func (p *prompt) remember(text string) {
	p.history = append(p.history, text)
	p.historyIndex = 0
}

// previousFromHistory walks backwards through submitted commands.
func (p *prompt) previousFromHistory() {
	if len(p.history) == 0 || p.historyIndex >= len(p.history) {
		return
	}
	p.historyIndex++
	p.text = p.history[len(p.history)-p.historyIndex]
}

// nextFromHistory walks forward, ending on an empty command line.
func (p *prompt) nextFromHistory() {
	if p.historyIndex <= 1 {
		p.historyIndex = 0
		p.text = commandPrefix
		return
	}
	p.historyIndex--
	p.text = p.history[len(p.history)-p.historyIndex]
}

// setOutput replaces the prompt with a transient message.
func (p *prompt) setOutput(t outputType, message string) {
	p.outputType = t
	p.text = message
	p.setAt = time.Now()
}

// tick clears expired transient output; it never touches active input.
func (p *prompt) tick(now time.Time) {
	if p.setAt.IsZero() || p.text == "" {
		return
	}
	if now.Sub(p.setAt) > messageDuration {
		p.clear()
	}
}

func (p *prompt) clear() {
	p.text = ""
	p.outputType = outputNone
	p.setAt = time.Time{}
	p.historyIndex = 0
}
