package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/notargets/femapping/types"
)

// MappingRun describes a structured grid and the mapping evaluated over it, read from YAML
type MappingRun struct {
	Title            string    `yaml:"Title"`
	Dim              int       `yaml:"Dim"`
	SpaceDim         int       `yaml:"SpaceDim"`
	Degree           int       `yaml:"Degree"`
	QuadraturePoints int       `yaml:"QuadraturePoints"` // Gauss points per direction
	Lower            []float64 `yaml:"Lower"`
	Upper            []float64 `yaml:"Upper"`
	Subdivisions     []int     `yaml:"Subdivisions"`
	Perturbation     float64   `yaml:"Perturbation"` // Fraction of the cell size interior vertices are moved by
	Seed             int64     `yaml:"Seed"`
	UpdateFlags      []string  `yaml:"UpdateFlags"`
	Workers          int       `yaml:"Workers"` // Cells are split into this many contiguous ranges
}

func (ip *MappingRun) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.SpaceDim == 0 {
		ip.SpaceDim = ip.Dim
	}
	if ip.Degree == 0 {
		ip.Degree = 1
	}
	if ip.QuadraturePoints == 0 {
		ip.QuadraturePoints = ip.Degree + 1
	}
	if ip.Workers == 0 {
		ip.Workers = 1
	}
	return ip.validate()
}

func (ip *MappingRun) validate() error {
	if ip.Dim < 1 || ip.Dim > 3 || ip.SpaceDim < ip.Dim || ip.SpaceDim > 3 {
		return fmt.Errorf("unsupported dimensions: Dim = %d, SpaceDim = %d", ip.Dim, ip.SpaceDim)
	}
	if len(ip.Lower) != ip.Dim || len(ip.Upper) != ip.Dim || len(ip.Subdivisions) != ip.Dim {
		return fmt.Errorf("Lower, Upper and Subdivisions must have %d entries each", ip.Dim)
	}
	for d := 0; d < ip.Dim; d++ {
		if ip.Upper[d] <= ip.Lower[d] {
			return fmt.Errorf("empty box in direction %d: [%g, %g]", d, ip.Lower[d], ip.Upper[d])
		}
		if ip.Subdivisions[d] < 1 {
			return fmt.Errorf("subdivisions must be positive, have %v", ip.Subdivisions)
		}
	}
	if ip.Perturbation < 0 || ip.Perturbation >= 0.5 {
		return fmt.Errorf("perturbation must be in [0, 0.5), have %g", ip.Perturbation)
	}
	if ip.Workers < 1 {
		return fmt.Errorf("number of workers must be positive, have %d", ip.Workers)
	}
	if _, ok := types.ParseUpdateFlags(ip.UpdateFlags); !ok {
		return fmt.Errorf("unknown update flag in %v", ip.UpdateFlags)
	}
	return nil
}

// Flags returns the requested update flags; JxW values are always computed.
func (ip *MappingRun) Flags() (f types.UpdateFlags) {
	f, _ = types.ParseUpdateFlags(ip.UpdateFlags)
	return f | types.UpdateJxWValues
}

func (ip *MappingRun) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d in %d]\t\t= Dimension\n", ip.Dim, ip.SpaceDim)
	fmt.Printf("[%d]\t\t\t= Mapping Degree\n", ip.Degree)
	fmt.Printf("[%d]\t\t\t= Quadrature Points per Direction\n", ip.QuadraturePoints)
	fmt.Printf("%v - %v\t= Box\n", ip.Lower, ip.Upper)
	fmt.Printf("%v\t\t= Subdivisions\n", ip.Subdivisions)
	fmt.Printf("%8.5f\t\t= Perturbation\n", ip.Perturbation)
	fmt.Printf("[%s]\t= Update Flags\n", ip.Flags())
	fmt.Printf("[%d]\t\t\t= Workers\n", ip.Workers)
}

// SolveRun is a sparse linear system given as (row, column, value) triplets and a right hand side
type SolveRun struct {
	Title   string      `yaml:"Title"`
	Size    int         `yaml:"Size"`
	Entries [][]float64 `yaml:"Entries"`
	RHS     []float64   `yaml:"RHS"`
}

func (ip *SolveRun) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Size < 1 {
		return fmt.Errorf("system size must be positive, have %d", ip.Size)
	}
	if len(ip.RHS) != ip.Size {
		return fmt.Errorf("RHS has %d entries for a system of size %d", len(ip.RHS), ip.Size)
	}
	_, _, _, err = ip.Triplets()
	return
}

// Triplets splits the entries into row and column indices and values.
func (ip *SolveRun) Triplets() (rows, cols []int, vals []float64, err error) {
	for k, e := range ip.Entries {
		if len(e) != 3 {
			err = fmt.Errorf("entry %d has %d fields, expected [row, column, value]", k, len(e))
			return
		}
		i, j := int(e[0]), int(e[1])
		if float64(i) != e[0] || float64(j) != e[1] || i < 0 || i >= ip.Size || j < 0 || j >= ip.Size {
			err = fmt.Errorf("entry %d has invalid position (%g, %g) for a system of size %d", k, e[0], e[1], ip.Size)
			return
		}
		rows = append(rows, i)
		cols = append(cols, j)
		vals = append(vals, e[2])
	}
	return
}

func (ip *SolveRun) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= System Size\n", ip.Size)
	fmt.Printf("[%d]\t\t\t= Number of Entries\n", len(ip.Entries))
}
