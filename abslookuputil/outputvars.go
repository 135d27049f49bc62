/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package abslookuputil

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/abslookup"
	"gonum.org/v1/gonum/mat"
)

// Variables other than species that are available to output expressions.
const (
	totalVar       = "Total"
	frequencyVar   = "Frequency"
	pressureVar    = "Pressure"
	temperatureVar = "Temperature"
)

// outputFunctions are the functions available to output expressions.
var outputFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("abslookuputil: got %d arguments for function 'exp', but needs 1", len(arg))
		}
		return math.Exp(arg[0].(float64)), nil
	},
	"log": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("abslookuputil: got %d arguments for function 'log', but needs 1", len(arg))
		}
		return math.Log(arg[0].(float64)), nil
	},
	"log10": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("abslookuputil: got %d arguments for function 'log10', but needs 1", len(arg))
		}
		return math.Log10(arg[0].(float64)), nil
	},
	"max": func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("abslookuputil: function 'max' needs at least 1 argument")
		}
		m := math.Inf(-1)
		for _, a := range args {
			m = math.Max(m, a.(float64))
		}
		return m, nil
	},
}

// variableName converts a species tag into a name that can be used
// in an output expression, e.g. "H2O-PWR98" becomes "H2O_PWR98".
func variableName(tag string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, tag)
}

// outputter calculates user-defined output variables from the absorption
// coefficients of each species at each level and frequency.
type outputter struct {
	species     []string
	names       []string
	expressions map[string]*govaluate.EvaluableExpression
}

// newOutputter parses the expressions in vars, which can refer to the
// species in species (as converted by variableName), to the sum over
// all species (Total), and to the Frequency, Pressure and Temperature.
func newOutputter(vars map[string]string, species []string) (*outputter, error) {
	o := &outputter{
		species:     species,
		expressions: make(map[string]*govaluate.EvaluableExpression, len(vars)),
	}
	known := map[string]bool{totalVar: true, frequencyVar: true, pressureVar: true, temperatureVar: true}
	for _, s := range species {
		known[variableName(s)] = true
	}
	for name, expr := range vars {
		if known[name] {
			return nil, fmt.Errorf("abslookuputil: output variable name '%s' conflicts with an input variable", name)
		}
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("abslookuputil: output variable %s: %v", name, err)
		}
		for _, v := range expression.Vars() {
			if !known[v] {
				return nil, fmt.Errorf("abslookuputil: output variable %s: undefined variable name '%s'", name, v)
			}
		}
		o.expressions[name] = expression
		o.names = append(o.names, name)
	}
	sort.Strings(o.names)
	return o, nil
}

// evaluate calculates the output variables for the absorption coefficients in
// absorption, which holds one [frequency x species] matrix for each level
// of atm. The result holds one [level x frequency] matrix for each variable.
func (o *outputter) evaluate(freqs []float64, atm *abslookup.Atmosphere, absorption []*mat.Dense) (map[string]*mat.Dense, error) {
	out := make(map[string]*mat.Dense, len(o.names))
	if len(o.names) == 0 {
		return out, nil
	}
	for _, name := range o.names {
		out[name] = mat.NewDense(len(absorption), len(freqs), nil)
	}
	params := make(map[string]interface{}, len(o.species)+4)
	for i, a := range absorption {
		params[pressureVar] = atm.Pressure[i]
		params[temperatureVar] = atm.Temperature[i]
		for j, f := range freqs {
			params[frequencyVar] = f
			total := 0.
			for s, tag := range o.species {
				v := a.At(j, s)
				params[variableName(tag)] = v
				total += v
			}
			params[totalVar] = total
			for _, name := range o.names {
				r, err := o.expressions[name].Evaluate(params)
				if err != nil {
					return nil, fmt.Errorf("abslookuputil: evaluating output variable %s: %v", name, err)
				}
				v, ok := r.(float64)
				if !ok {
					return nil, fmt.Errorf("abslookuputil: output variable %s evaluates to %#v, not a number", name, r)
				}
				out[name].Set(i, j, v)
			}
		}
	}
	return out, nil
}
