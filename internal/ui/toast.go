package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind selects the toast style.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

const (
	toastTTL = 3 * time.Second
	// Errors stay up longer so they can actually be read.
	toastErrorTTL = 5 * time.Second
)

// Toast is one transient notification.
type Toast struct {
	Kind      ToastKind
	Message   string
	expiresAt time.Time
}

// toastExpiredMsg triggers a prune pass.
type toastExpiredMsg struct{}

// ToastStack holds the live notifications, newest last. Expiry is driven
// by the update loop via Tick commands, not timers of its own.
type ToastStack struct {
	toasts []Toast
	now    func() time.Time
}

func NewToastStack() *ToastStack {
	return &ToastStack{now: time.Now}
}

// Push adds a toast and returns the command that will expire it.
func (s *ToastStack) Push(kind ToastKind, message string) tea.Cmd {
	ttl := toastTTL
	if kind == ToastError {
		ttl = toastErrorTTL
	}
	s.toasts = append(s.toasts, Toast{
		Kind:      kind,
		Message:   message,
		expiresAt: s.now().Add(ttl),
	})
	return tea.Tick(ttl, func(time.Time) tea.Msg { return toastExpiredMsg{} })
}

// Prune drops expired toasts.
func (s *ToastStack) Prune() {
	now := s.now()
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if t.expiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
}

// Active returns the live toasts, oldest first.
func (s *ToastStack) Active() []Toast {
	return s.toasts
}

// View renders the stack for the status area.
func (s *ToastStack) View() string {
	if len(s.toasts) == 0 {
		return ""
	}
	out := ""
	for _, t := range s.toasts {
		line := t.Message
		switch t.Kind {
		case ToastSuccess:
			line = styles.ok.Render("✓ " + line)
		case ToastError:
			line = styles.err.Render("✗ " + line)
		case ToastWarning:
			line = styles.warn.Render("! " + line)
		default:
			line = styles.help.Render(line)
		}
		if out != "" {
			out += "\n"
		}
		out += line
	}
	return out
}
