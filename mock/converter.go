package mock

import "github.com/fwojciec/pressroom"

var _ pressroom.Converter = (*Converter)(nil)

// Converter is a mock implementation of pressroom.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
