package scenario

import "github.com/arup-group/batsim/core/model"

// Filter restricts a specification to agents whose attribute under Key takes
// one of Values.
type Filter struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Match reports whether the attribute is present and its value allowed.
func (f Filter) Match(attrs model.Attributes) bool {
	v, ok := attrs[f.Key]
	if !ok {
		return false
	}
	for _, allowed := range f.Values {
		if v == allowed {
			return true
		}
	}
	return false
}

// Filters is an ordered filter list with AND semantics.
type Filters []Filter

// Match reports whether every filter matches.
func (fs Filters) Match(attrs model.Attributes) bool {
	for _, f := range fs {
		if !f.Match(attrs) {
			return false
		}
	}
	return true
}
