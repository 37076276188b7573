package imgedit

import "log/slog"

// Option configures an Editor during creation.
//
// Example:
//
//	ed := imgedit.New(palette,
//	    imgedit.WithLogger(logger),
//	    imgedit.WithChangeHook(func(c imgedit.Change) { redraw() }),
//	)
type Option func(*editorOptions)

// editorOptions holds optional configuration for Editor creation.
type editorOptions struct {
	logger     *slog.Logger
	poolSize   int
	changeHook func(Change)
}

// defaultOptions returns the default editor options.
func defaultOptions() editorOptions {
	return editorOptions{
		logger:   nil, // falls back to Logger()
		poolSize: 8,
	}
}

// WithLogger sets the logger used by the editor instead of the package
// logger configured with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *editorOptions) {
		o.logger = l
	}
}

// WithPoolSize sets how many spare layer buffers the editor keeps for
// reuse. Buffers are recycled from layers dropped from the redo list.
// A size of 0 keeps every released buffer.
func WithPoolSize(n int) Option {
	return func(o *editorOptions) {
		o.poolSize = n
	}
}

// WithChangeHook registers a function called after every state change:
// load, commit, undo and redo. The hook runs after the editor lock is
// released, so it may call back into the editor (for example Flatten).
func WithChangeHook(fn func(Change)) Option {
	return func(o *editorOptions) {
		o.changeHook = fn
	}
}
