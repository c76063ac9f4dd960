// Package models holds the compiled-in behavior models: node types whose
// declared interactions depend on their argument string or parameter values
// and therefore cannot be expressed as a declarative manifest.
package models

import "github.com/vk/rosrecover/internal/interp"

// Module is implemented by every compiled-in model package section; it
// registers one or more behaviors into a registry.
type Module interface {
	Register(reg *interp.Registry) error
}

// Core is the definitive list of models compiled into the binary.
var Core = []Module{
	imageTransport{},
	mapServer{},
	robotStatePublisher{},
}

// RegisterAll registers every compiled-in model into reg.
func RegisterAll(reg *interp.Registry) error {
	for _, m := range Core {
		if err := m.Register(reg); err != nil {
			return err
		}
	}
	return nil
}
