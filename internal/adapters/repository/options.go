package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacityHint pre-sizes the competitor map.
func WithCapacityHint(competitors int) Option {
	return func(s *MemStore) {
		if competitors > 0 {
			s.data = make(map[string]*competitorData, competitors)
		}
	}
}
