package overlap

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/pool"
	"github.com/san-kum/rigid2d/internal/shape"
)

// Keeper tracks which shape pairs overlap this step and which did last
// step. Records are pooled.
type Keeper struct {
	current *TupleDict[*Record]
	last    *TupleDict[*Record]
	records *pool.Pool[Record]

	bodyDict *TupleDict[*Record]
}

func NewKeeper() *Keeper {
	k := &Keeper{
		current:  NewTupleDict[*Record](),
		last:     NewTupleDict[*Record](),
		records:  pool.New(func() *Record { return &Record{} }, (*Record).reset),
		bodyDict: NewTupleDict[*Record](),
	}
	k.records.Resize(16)
	return k
}

// Tick rolls current into last. Records only referenced by last are
// returned to the pool first.
func (k *Keeper) Tick() {
	for _, key := range k.last.Keys() {
		rec, _ := k.last.GetByKey(key)
		if cur, ok := k.current.GetByKey(key); ok && cur == rec {
			continue
		}
		k.records.Release(rec)
	}
	k.last.Copy(k.current)
	k.current.Reset()
}

// SetOverlapping marks a pair as overlapping in the current state. A pair
// that was already overlapping last step keeps its record.
func (k *Keeper) SetOverlapping(bodyA *body.Body, shapeA shape.Shape, bodyB *body.Body, shapeB shape.Shape) {
	idA, idB := shapeA.Props().ID, shapeB.Props().ID
	if _, ok := k.current.Get(idA, idB); ok {
		return
	}
	if rec, ok := k.last.Get(idA, idB); ok {
		k.current.Set(idA, idB, rec)
		return
	}
	rec := k.records.Get()
	rec.Set(bodyA, shapeA, bodyB, shapeB)
	k.current.Set(idA, idB, rec)
}

// NewOverlaps are pairs in current that were not in last.
func (k *Keeper) NewOverlaps(result []*Record) []*Record {
	return diff(k.last, k.current, result[:0])
}

// EndOverlaps are pairs in last that are not in current.
func (k *Keeper) EndOverlaps(result []*Record) []*Record {
	return diff(k.current, k.last, result[:0])
}

func diff(from, to *TupleDict[*Record], result []*Record) []*Record {
	for _, key := range to.Keys() {
		if _, ok := from.GetByKey(key); ok {
			continue
		}
		rec, _ := to.GetByKey(key)
		result = append(result, rec)
	}
	return result
}

func (k *Keeper) IsNewOverlap(shapeA, shapeB shape.Shape) bool {
	idA, idB := shapeA.Props().ID, shapeB.Props().ID
	_, inLast := k.last.Get(idA, idB)
	_, inCurrent := k.current.Get(idA, idB)
	return inCurrent && !inLast
}

func (k *Keeper) BodiesAreOverlapping(a, b *body.Body) bool {
	for _, key := range k.current.Keys() {
		rec, _ := k.current.GetByKey(key)
		if (rec.BodyA == a && rec.BodyB == b) || (rec.BodyA == b && rec.BodyB == a) {
			return true
		}
	}
	return false
}

// NewBodyOverlaps flattens the new shape overlaps into unique body pairs,
// appended as a, b, a, b, ...
func (k *Keeper) NewBodyOverlaps(result []*body.Body) []*body.Body {
	return k.bodyDiff(k.NewOverlaps(nil), result[:0])
}

func (k *Keeper) EndBodyOverlaps(result []*body.Body) []*body.Body {
	return k.bodyDiff(k.EndOverlaps(nil), result[:0])
}

func (k *Keeper) bodyDiff(overlaps []*Record, result []*body.Body) []*body.Body {
	for _, rec := range overlaps {
		k.bodyDict.Set(rec.BodyA.ID, rec.BodyB.ID, rec)
	}
	for _, key := range k.bodyDict.Keys() {
		rec, _ := k.bodyDict.GetByKey(key)
		result = append(result, rec.BodyA, rec.BodyB)
	}
	k.bodyDict.Reset()
	return result
}

// RemoveBody purges every record mentioning b from both generations.
func (k *Keeper) RemoveBody(b *body.Body) {
	var released []*Record
	for _, dict := range []*TupleDict[*Record]{k.current, k.last} {
		keys := append([]Key(nil), dict.Keys()...)
		for _, key := range keys {
			rec, _ := dict.GetByKey(key)
			if !rec.Involves(b) {
				continue
			}
			dict.Delete(key)
			if !containsRecord(released, rec) {
				released = append(released, rec)
			}
		}
	}
	k.records.Release(released...)
}

func containsRecord(recs []*Record, r *Record) bool {
	for _, o := range recs {
		if o == r {
			return true
		}
	}
	return false
}

func (k *Keeper) CurrentLen() int { return k.current.Len() }
func (k *Keeper) LastLen() int    { return k.last.Len() }

// Records exposes the record pool for sizing hints.
func (k *Keeper) Records() *pool.Pool[Record] { return k.records }
