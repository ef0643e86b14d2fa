package overlap

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
)

type Record struct {
	BodyA  *body.Body
	ShapeA shape.Shape
	BodyB  *body.Body
	ShapeB shape.Shape
}

func (r *Record) Set(bodyA *body.Body, shapeA shape.Shape, bodyB *body.Body, shapeB shape.Shape) {
	r.BodyA, r.ShapeA = bodyA, shapeA
	r.BodyB, r.ShapeB = bodyB, shapeB
}

func (r *Record) reset() {
	r.BodyA, r.ShapeA, r.BodyB, r.ShapeB = nil, nil, nil, nil
}

func (r *Record) Involves(b *body.Body) bool {
	return r.BodyA == b || r.BodyB == b
}
