// Package options provides the generic functional-option plumbing shared by
// this module's configurable constructors — currently container.NewWriter's
// container.Option/container.WithBlockSize (spec.md §3 encode-time
// configuration).
package options

// Option configures a target of type T, one functional option at a time.
// container.Option is a type alias over Option[*container.Writer].
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function into an Option[T].
type Func[T any] struct {
	applyFunc func(T) error
}

// apply implements Option.
func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New builds an Option from a function that can fail, e.g. an option
// validating a count or size before accepting it.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Apply runs every option against target in order, stopping at the first
// error. container.NewWriter calls this once with the caller's opts.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError adapts a function that cannot fail into an Option, for options
// like container.WithBlockSize that only ever overwrite a field.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)

			return nil
		},
	}
}
