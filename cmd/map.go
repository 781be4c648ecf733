/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"sync"

	"github.com/notargets/femapping/InputParameters"
	"github.com/notargets/femapping/grid"
	"github.com/notargets/femapping/mapping"
	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
	"github.com/spf13/cobra"
)

// MapCmd represents the map command
var MapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a structured grid and integrate its geometry",
	Long: `
Builds a structured grid of hypercube cells, maps every cell with a polynomial mapping of the chosen degree
and reports the measure of the domain and of its boundary, summed from the JxW values at Gauss points.

femapping map -I mapping.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileName, _ := cmd.Flags().GetString("inputConditionsFile")
		ip := &InputParameters.MappingRun{}
		if err := readInput(fileName, exampleMappingFile, ip); err != nil {
			return err
		}
		ip.Print()
		res, err := RunMapping(ip)
		if err != nil {
			return err
		}
		res.Print()
		return nil
	},
}

const exampleMappingFile = `
########################################
Title: "Perturbed Square"
Dim: 2
SpaceDim: 2
Degree: 2
QuadraturePoints: 3
Lower: [0, 0]
Upper: [1, 1]
Subdivisions: [8, 8]
Perturbation: 0.1  # Fraction of the cell size
Seed: 1
UpdateFlags: [quadrature_points, jacobians]
Workers: 4
########################################
`

func init() {
	rootCmd.AddCommand(MapCmd)
	MapCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the grid and the mapping")
}

type parseable interface {
	Parse(data []byte) error
	Print()
}

// readInput parses fileName into ip, printing the example file when no file was named.
func readInput(fileName, example string, ip parseable) (err error) {
	if len(fileName) == 0 {
		fmt.Printf("Example File:%s\n", example)
		return fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
	}
	var data []byte
	if data, err = ioutil.ReadFile(fileName); err != nil {
		return
	}
	return ip.Parse(data)
}

type MappingResult struct {
	NCells          int
	Translations    int // Cells whose Jacobians were reused from the previous cell
	Measure         float64
	BoundaryMeasure float64
	MinJxW          float64
}

func (r MappingResult) Print() {
	fmt.Printf("[%d]\t\t\t= Cells\n", r.NCells)
	fmt.Printf("[%d]\t\t\t= Cells Reusing Jacobians\n", r.Translations)
	fmt.Printf("%12.8f\t\t= Measure\n", r.Measure)
	fmt.Printf("%12.8f\t\t= Boundary Measure\n", r.BoundaryMeasure)
	fmt.Printf("%12.8g\t\t= Min JxW\n", r.MinJxW)
}

/*
RunMapping maps every cell of the grid described by ip. Cells are split into ip.Workers contiguous ranges, each
processed by its own goroutine with its own InternalData, detecting translated neighbors within its range.
*/
func RunMapping(ip *InputParameters.MappingRun) (res MappingResult, err error) {
	tr := grid.NewHyperRectangle(ip.Dim, ip.SpaceDim, ip.Lower, ip.Upper, ip.Subdivisions)
	if ip.Perturbation > 0 {
		h := math.Inf(1)
		for d := 0; d < ip.Dim; d++ {
			h = math.Min(h, (ip.Upper[d]-ip.Lower[d])/float64(ip.Subdivisions[d]))
		}
		tr.Perturb(ip.Perturbation, h, ip.Seed)
	}
	var (
		m       = mapping.NewMapping(ip.Degree, ip.Dim, ip.SpaceDim)
		q       = quadrature.NewGauss(ip.QuadraturePoints, ip.Dim)
		pm      = utils.NewPartition(ip.Workers, tr.NCells())
		results = make([]MappingResult, pm.NBuckets)
		errs    = make([]error, pm.NBuckets)
		wg      = sync.WaitGroup{}
	)
	for bn := 0; bn < pm.NBuckets; bn++ {
		wg.Add(1)
		go func(bn int) {
			defer wg.Done()
			kMin, kMax := pm.Range(bn)
			results[bn], errs[bn] = mapCells(tr, m, q, ip.Flags(), kMin, kMax)
		}(bn)
	}
	wg.Wait()
	res.NCells = tr.NCells()
	res.MinJxW = math.Inf(1)
	for bn, r := range results {
		if errs[bn] != nil {
			err = errs[bn]
			return
		}
		res.Translations += r.Translations
		res.Measure += r.Measure
		res.MinJxW = math.Min(res.MinJxW, r.MinJxW)
	}
	if ip.Dim == ip.SpaceDim {
		res.BoundaryMeasure = boundaryMeasure(tr, m, ip.QuadraturePoints)
	}
	return
}

func mapCells(tr *grid.Triangulation, m *mapping.Mapping, q *quadrature.Quadrature, flags types.UpdateFlags,
	kMin, kMax int) (res MappingResult, err error) {
	var (
		data = m.GetData(flags, q)
		out  = data.NewOutputData(q.Size())
		prev *grid.Cell
	)
	res.MinJxW = math.Inf(1)
	for k := kMin; k < kMax; k++ {
		cell := tr.Cell(k)
		sim := grid.Similarity(prev, cell)
		if _, err = m.FillCellValues(cell, sim, q, data, out); err != nil {
			return
		}
		if sim == types.SimilarityTranslation {
			res.Translations++
		}
		for _, jxw := range out.JxWValues {
			res.Measure += jxw
			res.MinJxW = math.Min(res.MinJxW, jxw)
		}
		prev = cell
	}
	return
}

func boundaryMeasure(tr *grid.Triangulation, m *mapping.Mapping, nq int) (measure float64) {
	var qf *quadrature.Quadrature
	if m.Dim == 1 {
		qf = quadrature.NewPointQuadrature()
	} else {
		qf = quadrature.NewGauss(nq, m.Dim-1)
	}
	var (
		data = m.GetFaceData(types.UpdateJxWValues, qf)
		out  = data.NewOutputData(qf.Size())
	)
	for _, cf := range tr.BoundaryFaces() {
		m.FillFaceValues(tr.Cell(cf[0]), cf[1], qf, data, out)
		for _, jxw := range out.JxWValues {
			measure += jxw
		}
	}
	return
}
