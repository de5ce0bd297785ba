package domain

import "errors"

// Resolver answers distance queries against a Directory. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	dir    *Directory
	engine Engine
}

// NewResolver pairs a Directory with an Engine.
func NewResolver(dir *Directory, engine Engine) *Resolver {
	return &Resolver{dir: dir, engine: engine}
}

// Unit returns the unit results are reported in.
func (r *Resolver) Unit() Unit { return r.engine.Unit() }

// Locate normalizes user input and looks the code up.
func (r *Resolver) Locate(input string) (LocationRecord, error) {
	return r.dir.Lookup(NormalizeCode(input))
}

// Resolve computes the distance for q. On UnknownCodeError or
// InvalidCoordinateError the returned result is still populated with the
// query ID, codes and Error/ErrorKind, and the error is returned alongside
// it so callers may either report the result or handle the error.
func (r *Resolver) Resolve(q DistanceQuery) (DistanceResult, error) {
	if err := q.Validate(); err != nil {
		return DistanceResult{}, err
	}

	res := DistanceResult{
		ID:       q.ID,
		FromCode: NormalizeCode(q.From),
		ToCode:   NormalizeCode(q.To),
		Unit:     r.engine.Unit().Symbol,
	}

	from, err := r.dir.Lookup(res.FromCode)
	if err != nil {
		return failed(res, err), err
	}
	to, err := r.dir.Lookup(res.ToCode)
	if err != nil {
		return failed(res, err), err
	}

	d, err := r.engine.Between(from, to)
	if err != nil {
		return failed(res, err), err
	}

	res.From = &from
	res.To = &to
	res.Distance = d
	res.AngularDistance = d / r.engine.Unit().EarthRadius
	res.ComputedAt = clock.Now().UTC()
	return res, nil
}

func failed(res DistanceResult, err error) DistanceResult {
	res.Error = err.Error()
	res.ComputedAt = clock.Now().UTC()

	var unknown *UnknownCodeError
	var invalid *InvalidCoordinateError
	switch {
	case errors.As(err, &unknown):
		res.ErrorKind = ErrorKindUnknownCode
	case errors.As(err, &invalid):
		res.ErrorKind = ErrorKindInvalidCoordinate
	}
	return res
}
