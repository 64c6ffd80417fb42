// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "github.com/onepiec1/fuchsia/driver"

// LayerPool holds each display's preallocated set of display-controller
// layers. Layer counts are known-limited per display; a global layer
// pool shared across displays is future work, not attempted here.
type LayerPool struct {
	controller driver.DisplayController
	layers     map[driver.DisplayId][]driver.LayerId
}

func NewLayerPool(c driver.DisplayController) *LayerPool {
	return &LayerPool{controller: c, layers: make(map[driver.DisplayId][]driver.LayerId)}
}

// CreateLayers creates n layers for display and records them.
func (p *LayerPool) CreateLayers(display driver.DisplayId, n int) error {
	layers := make([]driver.LayerId, 0, n)
	for i := 0; i < n; i++ {
		l, err := p.controller.CreateLayer(display)
		if err != nil {
			for _, created := range layers {
				p.controller.DestroyLayer(created)
			}
			return ErrControllerTransportFailed
		}
		layers = append(layers, l)
	}
	p.layers[display] = layers
	return nil
}

// Layers returns the layers owned by display.
func (p *LayerPool) Layers(display driver.DisplayId) []driver.LayerId {
	return p.layers[display]
}
