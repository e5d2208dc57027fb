// Package geoart draws animated hypotrochoids colored by user-written
// WGSL expressions.
//
// # Overview
//
// An App ties together the pieces found in the sub-packages:
//
//   - settings: the flat parameter set and the store that publishes changes
//   - spiro and geometry: curve sampling and the point and line buffers
//   - shader and material: expression compilation and the two materials
//   - loop: the clock that advances time and renders frames
//   - preview and remote: software rendering, export and the WebSocket control
//
// Every change made to the settings store, whether from a config file, the
// remote control or a key press, reaches the geometry and the materials
// through subscriptions registered by New.
//
// # Quick Start
//
//	app, err := geoart.New(geoart.WithSize(800, 800))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer app.Close()
//
//	app.Settings().Set("d", 7)
//	if err := app.ExportFile("curve.png"); err != nil {
//		log.Fatal(err)
//	}
//
// # Rendering
//
// Without further options frames are drawn in software by package preview.
// On a host with a GPU, WithDevice renders through wgpu instead; the host
// supplies the surface texture with SetTarget and submits the command
// buffers.
//
// # Logging
//
// geoart is silent by default. SetLogger enables structured logging for the
// App and all sub-packages.
package geoart
