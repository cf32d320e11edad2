package cost

// Option applies a configuration option to a Model.
type Option func(*Model)

// WithWeights sets feature weights from a configuration map. Unknown names
// and negative weights are skipped.
func WithWeights(weights map[string]float64) Option {
	return func(m *Model) {
		for name, w := range weights {
			m.SetWeight(name, w)
		}
	}
}

// WithOptionalFeatures enables or disables optional sub-costs from a
// configuration map. Unknown names are skipped.
func WithOptionalFeatures(features map[string]bool) Option {
	return func(m *Model) {
		for name, on := range features {
			m.SetOptionalFeature(name, on)
		}
	}
}

// New creates a Model with default weights and all optional sub-costs
// disabled, then applies the options.
func New(opts ...Option) *Model {
	m := &Model{
		ballWeight:      defaultBallWeight,
		typeWeight:      defaultTypeWeight,
		formationWeight: defaultFormationWeight,
		passWeight:      defaultPassWeight,
		shotWeight:      defaultShotWeight,
		pressureWeight:  defaultPressureWeight,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
