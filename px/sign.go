package px

// The objective is maximized, the recombination engine minimizes.
// These are the only places where values change sign.

func toCost(value float64) float64 { return -value }

func toValue(cost float64) float64 { return -cost }

// Fitness converts the total cost of a choice over all differing variables, as computed from Cost,
// into the objective value of the corresponding offspring.
func (r *Reduction) Fitness(cost float64) float64 {
	return r.constant + toValue(cost)
}
