package llm

import "slices"

// Params holds the optional generation knobs of a single call. A nil field is
// unset and is never sent, so the provider's own default applies.
// StopSequences distinguishes nil (unset) from an empty non-nil slice.
type Params struct {
	MaxTokens     *int
	TopP          *float64
	Temperature   *float64
	StopSequences []string
	TopK          *int
}

// CallOption configures a single Generate call.
type CallOption func(*Params)

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) CallOption {
	return func(p *Params) { p.MaxTokens = &n }
}

// WithTopP sets the nucleus-sampling cutoff.
func WithTopP(v float64) CallOption {
	return func(p *Params) { p.TopP = &v }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(v float64) CallOption {
	return func(p *Params) { p.Temperature = &v }
}

// WithStopSequences sets the sequences that stop generation. Passing no
// sequences sends an explicit empty list.
func WithStopSequences(seqs ...string) CallOption {
	return func(p *Params) {
		if seqs == nil {
			seqs = []string{}
		}
		p.StopSequences = slices.Clone(seqs)
	}
}

// WithTopK sets the number of candidate tokens sampled from. Only some
// providers support it; the rest drop it.
func WithTopK(k int) CallOption {
	return func(p *Params) { p.TopK = &k }
}

// WithParams copies every set field of src.
func WithParams(src Params) CallOption {
	return func(p *Params) {
		if src.MaxTokens != nil {
			p.MaxTokens = Int(*src.MaxTokens)
		}
		if src.TopP != nil {
			p.TopP = Float(*src.TopP)
		}
		if src.Temperature != nil {
			p.Temperature = Float(*src.Temperature)
		}
		if src.StopSequences != nil {
			p.StopSequences = slices.Clone(src.StopSequences)
		}
		if src.TopK != nil {
			p.TopK = Int(*src.TopK)
		}
	}
}

// ApplyOptions resolves options into Params. No defaults are filled in.
func ApplyOptions(opts ...CallOption) Params {
	var p Params
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// MaxTokensOr returns MaxTokens when set and def otherwise. Used for wire
// fields a provider requires.
func (p Params) MaxTokensOr(def int) int {
	if p.MaxTokens != nil {
		return *p.MaxTokens
	}
	return def
}

// IsZero reports whether no parameter is set.
func (p Params) IsZero() bool {
	return p.MaxTokens == nil && p.TopP == nil && p.Temperature == nil &&
		p.StopSequences == nil && p.TopK == nil
}

// stopSequences returns a pointer usable in omitempty wire fields: nil when
// unset, otherwise a pointer to a copy (possibly empty).
func (p Params) stopSequences() *[]string {
	if p.StopSequences == nil {
		return nil
	}
	s := slices.Clone(p.StopSequences)
	if s == nil {
		s = []string{}
	}
	return &s
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
