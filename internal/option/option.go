package option

// Option represents a value that is either present or absent
type Option[T any] struct {
	value   T
	present bool
}

// Some returns an option holding value
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None returns an empty option
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the held value and whether it is present
func (opt Option[T]) Get() (T, bool) {
	return opt.value, opt.present
}

// IsPresent reports whether the option holds a value
func (opt Option[T]) IsPresent() bool {
	return opt.present
}

// Match calls some with the held value if it is present and none otherwise
func Match[T, R any](opt Option[T], some func(T) R, none func() R) R {
	if opt.present {
		return some(opt.value)
	}
	return none()
}
