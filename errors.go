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

package abslookup

import (
	"errors"
	"fmt"
)

// Axis identifies an interpolation axis of a lookup table.
type Axis int

// Interpolation axes.
const (
	PressureAxis Axis = iota
	TemperatureAxis
	HumidityAxis
)

func (a Axis) String() string {
	switch a {
	case PressureAxis:
		return "pressure"
	case TemperatureAxis:
		return "temperature"
	case HumidityAxis:
		return "humidity"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// StructureErr is returned when a table is internally inconsistent.
type StructureErr struct {
	Field   string
	Problem string
}

func (e StructureErr) Error() string {
	return fmt.Sprintf("abslookup: invalid table: %s %s", e.Field, e.Problem)
}

// ShapeMismatchErr is returned when the cross section array does not have
// the shape implied by the grids of the table.
type ShapeMismatchErr struct {
	Want, Got []int
}

func (e ShapeMismatchErr) Error() string {
	return fmt.Sprintf("abslookup: cross section array has shape %v but the table grids require %v", e.Got, e.Want)
}

// SpeciesNotFoundErr is returned when a requested species is not in the table.
type SpeciesNotFoundErr struct {
	Species string
}

func (e SpeciesNotFoundErr) Error() string {
	return fmt.Sprintf("abslookup: species %q is not in the lookup table", e.Species)
}

// DuplicateSpeciesErr is returned when a species occurs more than once,
// either in the table or in a request.
type DuplicateSpeciesErr struct {
	Species   string
	Count     int
	Requested bool
}

func (e DuplicateSpeciesErr) Error() string {
	where := "lookup table"
	if e.Requested {
		where = "requested species list"
	}
	return fmt.Sprintf("abslookup: species %q occurs %d times in the %s", e.Species, e.Count, where)
}

// GridPointNotFoundErr is returned when a point of a requested grid has no
// match in the table grid.
type GridPointNotFoundErr struct {
	Index     int
	Value     float64
	Tolerance float64
}

func (e GridPointNotFoundErr) Error() string {
	return fmt.Sprintf("abslookup: grid point %d (%g) is not within %g of any point of the table grid",
		e.Index, e.Value, e.Tolerance)
}

// DuplicateGridPointErr is returned when two points of a requested grid
// match the same point of the table grid.
type DuplicateGridPointErr struct {
	Index int
	Value float64
	Match float64
}

func (e DuplicateGridPointErr) Error() string {
	return fmt.Sprintf("abslookup: grid point %d (%g) matches table point %g, which is already matched by grid point %d",
		e.Index, e.Value, e.Match, e.Index-1)
}

// DimensionMismatchErr is returned when an input has the wrong length.
type DimensionMismatchErr struct {
	What      string
	Want, Got int
}

func (e DimensionMismatchErr) Error() string {
	return fmt.Sprintf("abslookup: %s has length %d but the table requires %d", e.What, e.Got, e.Want)
}

// InsufficientGridErr is returned when an axis has too few points for the
// requested interpolation order.
type InsufficientGridErr struct {
	Axis   Axis
	Points int
	Order  int
}

func (e InsufficientGridErr) Error() string {
	return fmt.Sprintf("abslookup: the %s grid has %d points, which is not enough for interpolation order %d",
		e.Axis, e.Points, e.Order)
}

// IndexOutOfRangeErr is returned when a frequency index is outside of the
// frequency grid.
type IndexOutOfRangeErr struct {
	Index, Len int
}

func (e IndexOutOfRangeErr) Error() string {
	return fmt.Sprintf("abslookup: frequency index %d is out of range; the largest allowed value is %d",
		e.Index, e.Len-1)
}

// InvalidOrderErr is returned for a negative interpolation order.
type InvalidOrderErr struct {
	Axis  Axis
	Order int
}

func (e InvalidOrderErr) Error() string {
	return fmt.Sprintf("abslookup: invalid %s interpolation order %d", e.Axis, e.Order)
}

// EmptyRequestErr is returned when Adapt is called with nothing to select.
type EmptyRequestErr struct {
	What string
}

func (e EmptyRequestErr) Error() string {
	return fmt.Sprintf("abslookup: no %s requested", e.What)
}

// NotAdaptedErr is returned by Extract for a table that has not been
// prepared by Adapt.
type NotAdaptedErr struct{}

func (e NotAdaptedErr) Error() string {
	return "abslookup: the log pressure grid of the table is not initialized; the table must be adapted before use"
}

// NoHumidityReferenceErr is returned by Extract when a table with nonlinear
// species has no H2O species.
type NoHumidityReferenceErr struct{}

func (e NoHumidityReferenceErr) Error() string {
	return "abslookup: with nonlinear species, at least one species must be a " + HumiditySpecies + " species"
}

// OutOfRangeErr is returned when an atmospheric state is outside of the
// range covered by the table, including its extrapolation allowance.
type OutOfRangeErr struct {
	Axis Axis

	// Value is the checked value: pressure [Pa], temperature offset from
	// the reference profile [K] or humidity fraction relative to the
	// reference profile. A temperature that is not positive is reported
	// as an absolute temperature [K], with GridMin and GridMax the range
	// of the reference temperature profile.
	Value float64

	// Min and Max are the allowed range.
	Min, Max float64

	// GridMin and GridMax are the range of the table grid.
	GridMin, GridMax float64

	// Pressure is the pressure of the extraction [Pa].
	Pressure float64
}

func (e OutOfRangeErr) Error() string {
	return fmt.Sprintf("abslookup: %s value %g at a pressure of %g Pa is outside the range covered by the lookup table; "+
		"the allowed range is %g to %g and the table grid range is %g to %g",
		e.Axis, e.Value, e.Pressure, e.Min, e.Max, e.GridMin, e.GridMax)
}

// ErrorCategory classifies errors returned by this package.
type ErrorCategory int

// Error categories.
const (
	Uncategorized ErrorCategory = iota

	// Structural errors mean the table itself is malformed.
	Structural

	// Request errors mean the caller asked for something the table cannot provide.
	Request

	// Range errors mean an atmospheric state is outside of the table.
	Range
)

func (c ErrorCategory) String() string {
	switch c {
	case Structural:
		return "structural"
	case Request:
		return "request"
	case Range:
		return "range"
	default:
		return "uncategorized"
	}
}

// Category returns the category of err.
func Category(err error) ErrorCategory {
	var (
		structErr  StructureErr
		shapeErr   ShapeMismatchErr
		dupErr     DuplicateSpeciesErr
		noHumidity NoHumidityReferenceErr
		rangeErr   OutOfRangeErr
	)
	switch {
	case errors.As(err, &structErr), errors.As(err, &shapeErr), errors.As(err, &noHumidity):
		return Structural
	case errors.As(err, &dupErr):
		if dupErr.Requested {
			return Request
		}
		return Structural
	case errors.As(err, &rangeErr):
		return Range
	}
	var (
		notFound   SpeciesNotFoundErr
		gridErr    GridPointNotFoundErr
		dupGridErr DuplicateGridPointErr
		dimErr     DimensionMismatchErr
		insuffErr  InsufficientGridErr
		indexErr   IndexOutOfRangeErr
		orderErr   InvalidOrderErr
		emptyErr   EmptyRequestErr
		notAdapted NotAdaptedErr
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &gridErr), errors.As(err, &dupGridErr),
		errors.As(err, &dimErr),
		errors.As(err, &insuffErr), errors.As(err, &indexErr), errors.As(err, &orderErr),
		errors.As(err, &emptyErr), errors.As(err, &notAdapted):
		return Request
	}
	return Uncategorized
}
