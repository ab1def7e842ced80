package helpers

// ConfigOption is implemented by option types used with the variadic options pattern, such as
// harness.ClientOption.
type ConfigOption[T any] interface {
	// Configure applies the option to the target.
	Configure(*T) error
}

// ApplyOptions applies options in order and stops at the first error.
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	for _, o := range options {
		if err := o.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
