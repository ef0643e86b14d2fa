// Package shape defines the collision geometry attached to bodies.
//
// Every variant implements [Shape]:
//
//   - [Circle], [Particle]: point cores with a radius (zero for particles)
//   - [Line], [Capsule]: segment cores along the local x axis
//   - [Box], [Convex]: counter-clockwise polygons
//   - [Plane]: half-space below the local x axis, normal along +y
//   - [Heightfield]: terrain samples spaced along +x
//   - [Compound]: several child shapes sharing one body slot
//
// Geometry is fixed at construction. Only the attach offset and angle in
// [Base] may change afterwards.
package shape
