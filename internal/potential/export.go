package potential

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/interp"
	"gopkg.in/yaml.v3"
)

// multipoleDoc is the on-disk form of a Multipole expansion.
type multipoleDoc struct {
	Lmax         int         `yaml:"lmax"`
	Radii        []float64   `yaml:"radii"`
	Coefficients [][]float64 `yaml:"coefficients"`
	Derivatives  [][]float64 `yaml:"derivatives"`
	TotalMass    float64     `yaml:"total_mass"`
}

// Export writes the expansion coefficients to path so the potential can be
// reloaded later without re-solving.
func (m *Multipole) Export(path string) error {
	doc := multipoleDoc{
		Lmax:         m.lmax,
		Radii:        m.radii,
		Coefficients: m.coefs,
		Derivatives:  m.derivs,
		TotalMass:    m.mtot,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads an expansion previously written by Export.
func Load(path string) (*Multipole, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc multipoleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("potential: load %s: %w", path, err)
	}
	nl := doc.Lmax/2 + 1
	if len(doc.Radii) < 4 || len(doc.Coefficients) != nl || len(doc.Derivatives) != nl {
		return nil, fmt.Errorf("potential: load %s: malformed expansion", path)
	}
	m := &Multipole{
		lmax:   doc.Lmax,
		rmin:   doc.Radii[0],
		rmax:   doc.Radii[len(doc.Radii)-1],
		radii:  doc.Radii,
		coefs:  doc.Coefficients,
		derivs: doc.Derivatives,
		phi:    make([]*interp.AkimaSpline, nl),
		dphi:   make([]*interp.AkimaSpline, nl),
		mtot:   doc.TotalMass,
	}
	lnr := make([]float64, len(doc.Radii))
	for i, r := range doc.Radii {
		lnr[i] = math.Log(r)
	}
	for k := 0; k < nl; k++ {
		m.phi[k] = &interp.AkimaSpline{}
		if err := m.phi[k].Fit(lnr, m.coefs[k]); err != nil {
			return nil, fmt.Errorf("potential: load %s: %w", path, err)
		}
		m.dphi[k] = &interp.AkimaSpline{}
		if err := m.dphi[k].Fit(lnr, m.derivs[k]); err != nil {
			return nil, fmt.Errorf("potential: load %s: %w", path, err)
		}
	}
	return m, nil
}
