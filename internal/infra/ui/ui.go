// Where: internal/infra/ui/ui.go
// What: High-level output surface for command adapters.
// Why: Keep plain and emoji output behind one interface.
package ui

import "io"

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by commands.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewUI returns a UserInterface writing to out.
func NewUI(out io.Writer, emojiEnabled bool) UserInterface {
	return consoleUI{console: NewWithEmoji(out, emojiEnabled)}
}

type consoleUI struct {
	console *Console
}

func (c consoleUI) Info(msg string) {
	c.console.Info(msg)
}

func (c consoleUI) Warn(msg string) {
	c.console.Warn(msg)
}

func (c consoleUI) Success(msg string) {
	c.console.Success(msg)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.BlockStart(emoji, title)
	for _, kv := range rows {
		c.console.Item(kv.Key, kv.Value)
	}
	c.console.BlockEnd()
}
