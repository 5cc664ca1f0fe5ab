package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Machine records the state machine name under the key "machine".
// Unnamed machines produce an empty Attr.
func Machine(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("machine", name)
}

// State records a state name under the key "state".
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// Input records an input name under the key "input".
func Input(name string) slog.Attr {
	return slog.String("input", name)
}

// Transition groups the endpoints of a transition under the key "transition".
// The input is omitted when empty, as for forced state changes.
func Transition(from, input, to string) slog.Attr {
	attrs := []slog.Attr{slog.String("from", from)}
	if input != "" {
		attrs = append(attrs, slog.String("input", input))
	}
	attrs = append(attrs, slog.String("to", to))
	return Group("transition", attrs...)
}

// Hook records a lifecycle hook category under the key "hook".
func Hook(kind string) slog.Attr {
	return slog.String("hook", kind)
}

// Definition records a definition source, typically a file path, under the key "definition".
func Definition(source string) slog.Attr {
	return slog.String("definition", source)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
