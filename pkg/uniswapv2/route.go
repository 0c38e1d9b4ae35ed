package uniswapv2

import "fmt"

// Route is an ordered chain of pairs leading from Input to Output.
type Route struct {
	Pairs  []*Pair
	Path   []Asset
	Input  Asset
	Output Asset
}

// NewRoute chains pairs starting from input. Consecutive pairs must share
// an asset, and the output is the last pair's other asset.
func NewRoute(pairs []*Pair, input Asset) (*Route, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyRoute
	}
	path := make([]Asset, 0, len(pairs)+1)
	path = append(path, input)
	current := input
	for i, p := range pairs {
		next, err := p.Other(current)
		if err != nil {
			return nil, fmt.Errorf("%w: hop %d does not contain %s", ErrInvalidPath, i, current)
		}
		path = append(path, next)
		current = next
	}
	return &Route{
		Pairs:  append([]*Pair(nil), pairs...),
		Path:   path,
		Input:  input,
		Output: current,
	}, nil
}

// MidPrice is the pre-trade price of Input in Output raw units: the product
// of reserveOut/reserveIn over every hop.
func (r *Route) MidPrice() (Fraction, error) {
	price := FractionFromInt(bigOne)
	for i, p := range r.Pairs {
		reserveIn, reserveOut, _, err := p.reservesFor(r.Path[i])
		if err != nil {
			return Fraction{}, err
		}
		price = price.Mul(NewFraction(reserveOut, reserveIn))
	}
	return price, nil
}

// Reverse returns the same pairs walked from Output back to Input.
func (r *Route) Reverse() *Route {
	pairs := make([]*Pair, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[len(r.Pairs)-1-i] = p
	}
	path := make([]Asset, len(r.Path))
	for i, a := range r.Path {
		path[len(r.Path)-1-i] = a
	}
	return &Route{Pairs: pairs, Path: path, Input: r.Output, Output: r.Input}
}

// Addresses returns the path as router-ready addresses.
func (r *Route) Addresses() []string {
	out := make([]string, len(r.Path))
	for i, a := range r.Path {
		out[i] = a.Address.Hex()
	}
	return out
}

func (r *Route) hopCount() int64 { return int64(len(r.Pairs)) }

