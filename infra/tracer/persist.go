package tracer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arup-group/batsim/core/model"
)

// WriteTraces serialises the population's traces as JSON.
func WriteTraces(w io.Writer, pop *model.Population) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(pop); err != nil {
		return fmt.Errorf("serialise traces: %w", err)
	}
	return nil
}

// ReadTraces deserialises a traces file written by WriteTraces.
func ReadTraces(r io.Reader) (*model.Population, error) {
	var pop model.Population
	if err := json.NewDecoder(r).Decode(&pop); err != nil {
		return nil, fmt.Errorf("deserialise traces (check the file is json): %w", err)
	}
	if pop.People == nil {
		pop.People = make(map[string]*model.Person)
	}
	return &pop, nil
}
