package overlap

// Key is an unordered id pair, stored with A <= B.
type Key struct {
	A, B int
}

func MakeKey(i, j int) Key {
	if i > j {
		i, j = j, i
	}
	return Key{A: i, B: j}
}

// TupleDict maps unordered id pairs to values and remembers insertion
// order so iteration is deterministic.
type TupleDict[V any] struct {
	data map[Key]V
	keys []Key
}

func NewTupleDict[V any]() *TupleDict[V] {
	return &TupleDict[V]{data: make(map[Key]V)}
}

func (d *TupleDict[V]) Get(i, j int) (V, bool) {
	v, ok := d.data[MakeKey(i, j)]
	return v, ok
}

func (d *TupleDict[V]) GetByKey(k Key) (V, bool) {
	v, ok := d.data[k]
	return v, ok
}

// Set stores v. An existing entry for the pair is overwritten in place.
func (d *TupleDict[V]) Set(i, j int, v V) {
	k := MakeKey(i, j)
	if _, ok := d.data[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.data[k] = v
}

func (d *TupleDict[V]) Delete(k Key) bool {
	if _, ok := d.data[k]; !ok {
		return false
	}
	delete(d.data, k)
	for i, other := range d.keys {
		if other == k {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

func (d *TupleDict[V]) Keys() []Key { return d.keys }
func (d *TupleDict[V]) Len() int    { return len(d.keys) }

func (d *TupleDict[V]) Reset() {
	clear(d.data)
	d.keys = d.keys[:0]
}

// Copy replaces the contents with those of other.
func (d *TupleDict[V]) Copy(other *TupleDict[V]) {
	d.Reset()
	for _, k := range other.keys {
		d.data[k] = other.data[k]
		d.keys = append(d.keys, k)
	}
}
