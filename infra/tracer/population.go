package tracer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/arup-group/batsim/core/model"
)

// ReadPopulation streams a MATSim plans file, collecting each person's id and
// attributes. Only the first attributes block inside a person element is read
// (person attributes precede the plan); attributes nested in plans or legs
// are ignored.
func ReadPopulation(r io.Reader) (*model.Population, error) {
	dec := xml.NewDecoder(r)
	pop := model.NewPopulation()

	var pid string
	var inAttributes bool
	var attrName string
	var attrValue strings.Builder
	attributesDone := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read plans xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "person":
				pid = attrByName(t, "id")
				if pid == "" {
					return nil, fmt.Errorf("person element without id")
				}
				pop.People[pid] = &model.Person{Attributes: model.Attributes{}}
				attributesDone = false
			case "attributes":
				if pid != "" && !attributesDone {
					inAttributes = true
				}
			case "attribute":
				if inAttributes {
					attrName = attrByName(t, "name")
					attrValue.Reset()
				}
			}
		case xml.CharData:
			if inAttributes && attrName != "" {
				attrValue.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "attribute":
				if inAttributes && attrName != "" {
					pop.People[pid].Attributes[attrName] = strings.TrimSpace(attrValue.String())
					attrName = ""
				}
			case "attributes":
				if inAttributes {
					inAttributes = false
					attributesDone = true
				}
			case "person":
				pid = ""
			}
		}
	}
	return pop, nil
}

func attrByName(e xml.StartElement, name string) string {
	for _, attr := range e.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
