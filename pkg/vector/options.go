package vector

const defaultSearchLimit = 10

type searchOptions struct {
	limit     int
	threshold float32
}

// SearchOption adjusts a single Search call.
type SearchOption func(*searchOptions)

func applySearchOptions(opts []SearchOption) searchOptions {
	conf := searchOptions{limit: defaultSearchLimit}
	for _, opt := range opts {
		opt(&conf)
	}
	if conf.limit <= 0 {
		conf.limit = defaultSearchLimit
	}
	return conf
}

// WithLimit caps the number of results.
func WithLimit(n int) SearchOption {
	return func(c *searchOptions) { c.limit = n }
}

// WithThreshold drops results whose similarity is below t.
func WithThreshold(t float32) SearchOption {
	return func(c *searchOptions) { c.threshold = t }
}
