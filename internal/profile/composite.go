package profile

// Composite is the sum of several density fields. Summation order is the
// slice order and is preserved, which keeps iteration results reproducible.
type Composite struct {
	Fields []Field
}

func NewComposite(fields ...Field) *Composite {
	return &Composite{Fields: fields}
}

func (c *Composite) Density(R, z float64) float64 {
	sum := 0.0
	for _, f := range c.Fields {
		sum += f.Density(R, z)
	}
	return sum
}

func (c *Composite) TotalMass() float64 {
	sum := 0.0
	for _, f := range c.Fields {
		sum += f.TotalMass()
	}
	return sum
}
