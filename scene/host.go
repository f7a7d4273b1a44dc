// Package scene assembles the laser spectroscopy figure: a sample block with
// two liquid channels, the converging beams, the plot on its mirror, the
// protein, the camera and the lamps. It drives any 3D host through the Host
// interface, so the same scene can be rendered by the preview window,
// recorded into a plan file or streamed to a remote modelling tool.
package scene

import "context"

// Host is a 3D environment that can create the scene's objects. Calls
// arrive in construction order and refer to earlier objects by ID.
type Host interface {
	ConfigureWorld(ctx context.Context, w World) error

	// AddPrimitive creates a mesh object and assigns mat to it. mat may be
	// nil for objects that keep the host's default material.
	AddPrimitive(ctx context.Context, p Primitive, mat *Material) error

	Boolean(ctx context.Context, op BooleanOp) error
	ImportMesh(ctx context.Context, p Protein) error
	PlaceCamera(ctx context.Context, c Camera) error
	AddLamp(ctx context.Context, l Lamp) error
}
