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
	"context"
	"runtime"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/abslookup/internal/hash"
	"gonum.org/v1/gonum/mat"
)

// CachedExtractor memoizes Extract results for a table. Concurrent
// identical requests are only computed once.
type CachedExtractor struct {
	cache *requestcache.Cache
}

// extractResult carries errors as part of the result so that failed
// requests are cached and deduplicated like successful ones.
type extractResult struct {
	m   *mat.Dense
	err error
}

type extractRequest struct {
	fIndex int
	p, T   float64
	vmrs   []float64
}

// NewCachedExtractor returns a CachedExtractor that keeps up to size
// results in memory. t must not be modified while the extractor is in use.
func NewCachedExtractor(t *Table, o Orders, size int) *CachedExtractor {
	c := new(CachedExtractor)
	c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		r := request.(extractRequest)
		m, err := t.Extract(o, r.fIndex, r.p, r.T, r.vmrs)
		return extractResult{m: m, err: err}, nil
	}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(size))
	return c
}

// Extract returns the same result as Table.Extract with the orders of c.
// The returned matrix is not shared with other callers.
func (c *CachedExtractor) Extract(ctx context.Context, fIndex int, p, T float64, vmrs []float64) (*mat.Dense, error) {
	r := extractRequest{fIndex: fIndex, p: p, T: T, vmrs: append([]float64(nil), vmrs...)}
	req := c.cache.NewRequest(ctx, r, extractKey(r))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	res := result.(extractResult)
	if res.err != nil {
		return nil, res.err
	}
	return mat.DenseCopyOf(res.m), nil
}

func extractKey(r extractRequest) string {
	return hash.Key(r.fIndex, r.p, r.T, r.vmrs)
}
