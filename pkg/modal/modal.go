// Package modal provides transient dialog state: a confirmation dialog
// whose confirm callback fires only on explicit confirmation, and a
// content loader that fetches an HTML fragment into a dialog body with
// loading and error placeholders.
package modal

import "sync"

// ConfirmOptions configures a confirmation dialog.
type ConfirmOptions struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
	OnCancel     func()
}

// Dialog is a transient confirmation dialog. OnConfirm runs only on an
// explicit Confirm; every other dismissal runs OnCancel. The dialog is
// released on close either way, and the callbacks fire at most once.
type Dialog struct {
	mu     sync.Mutex
	opts   ConfirmOptions
	open   bool
	closed bool
}

// Confirm builds and opens a confirmation dialog.
func Confirm(opts ConfirmOptions) *Dialog {
	if opts.ConfirmLabel == "" {
		opts.ConfirmLabel = "Confirmar"
	}
	if opts.CancelLabel == "" {
		opts.CancelLabel = "Cancelar"
	}
	return &Dialog{opts: opts, open: true}
}

// Title returns the dialog title.
func (d *Dialog) Title() string { return d.opts.Title }

// Message returns the dialog message.
func (d *Dialog) Message() string { return d.opts.Message }

// Labels returns the confirm and cancel button labels.
func (d *Dialog) Labels() (confirm, cancel string) {
	return d.opts.ConfirmLabel, d.opts.CancelLabel
}

// Open reports whether the dialog is still displayed.
func (d *Dialog) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Confirm closes the dialog and invokes the confirm callback.
func (d *Dialog) Confirm() {
	d.close(true)
}

// Dismiss closes the dialog without confirming: escape key, backdrop
// click or the cancel button all land here.
func (d *Dialog) Dismiss() {
	d.close(false)
}

func (d *Dialog) close(confirmed bool) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.open = false
	onConfirm := d.opts.OnConfirm
	onCancel := d.opts.OnCancel
	d.mu.Unlock()

	if confirmed {
		if onConfirm != nil {
			onConfirm()
		}
		return
	}
	if onCancel != nil {
		onCancel()
	}
}
