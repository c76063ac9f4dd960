package symbolic

import (
	"encoding/json"
	"fmt"
)

// jsonProgram mirrors the document shape the extractor emits.
type jsonProgram struct {
	Entry     string         `json:"entry"`
	Functions []jsonFunction `json:"functions"`
}

type jsonFunction struct {
	Name string          `json:"name"`
	Body []jsonStatement `json:"body"`
}

type jsonStatement struct {
	Kind       string      `json:"kind"`
	Name       *jsonString `json:"name,omitempty"`
	Topic      *jsonString `json:"topic,omitempty"`
	Service    *jsonString `json:"service,omitempty"`
	Param      *jsonString `json:"param,omitempty"`
	Format     string      `json:"format,omitempty"`
	Callback   string      `json:"callback,omitempty"`
	Callee     string      `json:"callee,omitempty"`
	Rate       float64     `json:"rate,omitempty"`
	HasDefault bool        `json:"has_default,omitempty"`
}

type jsonString struct {
	Literal bool   `json:"literal"`
	Value   string `json:"value,omitempty"`
}

func (s *jsonString) toString() String {
	if s == nil {
		return Unknown()
	}
	return String{Literal: s.Literal, Value: s.Value}
}

// DecodeProgram parses the JSON document produced by the extractor.
func DecodeProgram(data []byte) (*Program, error) {
	var doc jsonProgram
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing symbolic program: %w", err)
	}

	prog := &Program{
		Entry:     doc.Entry,
		Functions: make(map[string]Function, len(doc.Functions)),
	}
	for _, fn := range doc.Functions {
		if _, exists := prog.Functions[fn.Name]; exists {
			return nil, fmt.Errorf("duplicate function %q in symbolic program", fn.Name)
		}
		body := make([]Statement, 0, len(fn.Body))
		for i, raw := range fn.Body {
			stmt, err := decodeStatement(raw)
			if err != nil {
				return nil, fmt.Errorf("function %q, statement %d: %w", fn.Name, i, err)
			}
			body = append(body, stmt)
		}
		prog.Functions[fn.Name] = Function{Name: fn.Name, Body: body}
	}
	return prog, nil
}

func decodeStatement(raw jsonStatement) (Statement, error) {
	switch raw.Kind {
	case "ros_init":
		return RosInit{Name: raw.Name.toString()}, nil
	case "publish":
		return Publish{Topic: raw.Topic.toString(), Format: raw.Format}, nil
	case "subscribe":
		return Subscribe{Topic: raw.Topic.toString(), Format: raw.Format, Callback: raw.Callback}, nil
	case "service_provide":
		return ServiceProvide{Service: raw.Service.toString(), Format: raw.Format}, nil
	case "service_call":
		return ServiceCall{Service: raw.Service.toString(), Format: raw.Format}, nil
	case "read_param":
		return ReadParam{Param: raw.Param.toString(), HasDefault: raw.HasDefault}, nil
	case "write_param":
		return WriteParam{Param: raw.Param.toString()}, nil
	case "rate_sleep":
		return RateSleep{Rate: raw.Rate}, nil
	case "call":
		return Call{Callee: raw.Callee}, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", raw.Kind)
	}
}
