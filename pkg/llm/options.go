package llm

// callOptions collects per-call sampling configuration. Unset fields stay
// nil and the provider's defaults apply.
type callOptions struct {
	model       string
	temperature *float64
	topP        *float64
	maxTokens   *int64
	seed        *int64
}

// CallOption adjusts a single Call or Stream invocation.
type CallOption func(*callOptions)

func applyOptions(opts []CallOption) callOptions {
	var conf callOptions
	for _, opt := range opts {
		opt(&conf)
	}
	return conf
}

// WithModel overrides the client's configured model for this call.
func WithModel(model string) CallOption {
	return func(c *callOptions) { c.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(v float64) CallOption {
	return func(c *callOptions) { c.temperature = &v }
}

// WithTopP sets the nucleus sampling cutoff.
func WithTopP(v float64) CallOption {
	return func(c *callOptions) { c.topP = &v }
}

// WithMaxTokens caps the number of completion tokens.
func WithMaxTokens(n int64) CallOption {
	return func(c *callOptions) { c.maxTokens = &n }
}

// WithSeed requests deterministic sampling where the provider supports it.
func WithSeed(n int64) CallOption {
	return func(c *callOptions) { c.seed = &n }
}
