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

	"github.com/notargets/femapping/InputParameters"
	"github.com/notargets/femapping/sparsedirect"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a sparse linear system with a direct factorization",
	Long: `
Reads a square sparse matrix as (row, column, value) triplets together with a right hand side, factors it and
prints the solution and the residual norm.

femapping solve -I system.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileName, _ := cmd.Flags().GetString("inputConditionsFile")
		ip := &InputParameters.SolveRun{}
		if err := readInput(fileName, exampleSolveFile, ip); err != nil {
			return err
		}
		ip.Print()
		x, residual, err := RunSolve(ip)
		if err != nil {
			return err
		}
		fmt.Printf("%v\t= Solution\n", x)
		fmt.Printf("%12.5e\t\t= Residual Norm\n", residual)
		return nil
	},
}

const exampleSolveFile = `
########################################
Title: "Tridiagonal"
Size: 3
Entries: # [row, column, value]
  - [0, 0, 2]
  - [0, 1, -1]
  - [1, 0, -1]
  - [1, 1, 2]
  - [1, 2, -1]
  - [2, 1, -1]
  - [2, 2, 2]
RHS: [1, 0, 1]
########################################
`

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with the matrix triplets and right hand side")
}

// RunSolve factors the system and returns the solution with the 2-norm of its residual.
func RunSolve(ip *InputParameters.SolveRun) (x []float64, residual float64, err error) {
	rows, cols, vals, err := ip.Triplets()
	if err != nil {
		return
	}
	var (
		A = sparsedirect.NewCSRMatrixFromTriplets(ip.Size, ip.Size, rows, cols, vals)
		s = sparsedirect.NewSolver(nil)
	)
	defer s.Close()
	x = append([]float64{}, ip.RHS...)
	if err = s.SolveMatrix(A, x); err != nil {
		return
	}
	r := A.MulVec(x)
	floats.Sub(r, ip.RHS)
	residual = floats.Norm(r, 2)
	return
}
