package differ

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithLabels sets the human-readable source names used in rendered
// verdict messages. Defaults are "Jira" and "M365".
func WithLabels(primary, secondary string) Option {
	return func(d *differ) {
		if primary != "" {
			d.primaryLabel = primary
		}
		if secondary != "" {
			d.secondaryLabel = secondary
		}
	}
}
