package config

import "fmt"

// DistributionKind names the sampling law of a bounded random value.
type DistributionKind string

const (
	Uniform     DistributionKind = "uniform"
	Normal      DistributionKind = "normal"
	Exponential DistributionKind = "exponential"
)

// Distribution describes a random value clamped into [Min, Max].
// Normal reads params "avg" and "stddev"; exponential reads "lambda".
type Distribution struct {
	Min    float64            `yaml:"min"`
	Max    float64            `yaml:"max"`
	Kind   DistributionKind   `yaml:"kind"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Fixed returns a distribution that always yields v.
func Fixed(v float64) Distribution {
	return Distribution{Min: v, Max: v, Kind: Uniform}
}

// Param returns a named parameter, or zero when absent.
func (d Distribution) Param(name string) float64 {
	return d.Params[name]
}

// Validate reports configuration errors: unknown kinds, inverted bounds,
// and missing or invalid parameters.
func (d Distribution) Validate() error {
	if d.Min > d.Max {
		return fmt.Errorf("min %v greater than max %v", d.Min, d.Max)
	}
	switch d.Kind {
	case Uniform:
		return nil
	case Normal:
		if _, ok := d.Params["avg"]; !ok {
			return fmt.Errorf("normal distribution missing param avg")
		}
		sd, ok := d.Params["stddev"]
		if !ok {
			return fmt.Errorf("normal distribution missing param stddev")
		}
		if sd < 0 {
			return fmt.Errorf("normal distribution stddev %v is negative", sd)
		}
		return nil
	case Exponential:
		lambda, ok := d.Params["lambda"]
		if !ok {
			return fmt.Errorf("exponential distribution missing param lambda")
		}
		if lambda <= 0 {
			return fmt.Errorf("exponential distribution lambda %v must be positive", lambda)
		}
		return nil
	default:
		return fmt.Errorf("unknown distribution kind %q", d.Kind)
	}
}
