// Package alert delivers user-facing notifications about check failures.
package alert

import (
	"sync"

	"github.com/phpdoctor/phpdoctor/internal/output"
	"github.com/phpdoctor/phpdoctor/internal/ui"
)

// Notifier presents a titled notification to the user. Fire-and-forget:
// implementations must not block validation and must not return errors.
type Notifier interface {
	Notify(title, description string)
}

// Func adapts a function to the Notifier interface.
type Func func(title, description string)

// Notify implements Notifier.
func (f Func) Notify(title, description string) {
	f(title, description)
}

// TerminalNotifier renders notifications to a CLI output writer.
type TerminalNotifier struct {
	w      *output.Writer
	styles ui.Styles
}

// NewTerminalNotifier creates a terminal notifier.
func NewTerminalNotifier(w *output.Writer, styles ui.Styles) *TerminalNotifier {
	return &TerminalNotifier{w: w, styles: styles}
}

// Notify prints the alert title and description.
func (n *TerminalNotifier) Notify(title, description string) {
	n.w.Error(n.styles.Fail.Render(title))
	if description != "" {
		n.w.Status("", n.styles.Label.Render(description))
	}
}

// AsyncNotifier decouples notification delivery from the validation pass.
// Notifications are queued and delivered on a separate goroutine with no
// ordering guarantee relative to subsequent checks.
type AsyncNotifier struct {
	inner Notifier
	queue chan notification
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type notification struct {
	title       string
	description string
}

// queueDepth bounds pending notifications. Validation produces at most one
// notification per check, so overflow never happens in practice; if it did,
// Notify blocks rather than dropping alerts.
const queueDepth = 16

// NewAsyncNotifier wraps inner with asynchronous delivery.
func NewAsyncNotifier(inner Notifier) *AsyncNotifier {
	n := &AsyncNotifier{
		inner: inner,
		queue: make(chan notification, queueDepth),
	}
	n.wg.Add(1)
	go n.deliver()
	return n
}

// Notify queues a notification for asynchronous delivery.
// Calls after Close are dropped.
func (n *AsyncNotifier) Notify(title, description string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.queue <- notification{title: title, description: description}
}

// Close drains pending notifications and stops the delivery goroutine.
// Safe to call multiple times.
func (n *AsyncNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *AsyncNotifier) deliver() {
	defer n.wg.Done()
	for msg := range n.queue {
		n.inner.Notify(msg.title, msg.description)
	}
}
