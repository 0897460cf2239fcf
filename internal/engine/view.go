package engine

import "trashday/internal/core"

// View is a read-only, ordered subset of a dataset.
type View struct {
	ds      *core.Dataset
	indices []int // nil means every record of ds
}

// All returns a view over every record of ds.
func All(ds *core.Dataset) View {
	return View{ds: ds}
}

func (v View) Len() int {
	if v.indices == nil {
		return v.ds.Len()
	}
	return len(v.indices)
}

// At returns the i-th record of the view.
func (v View) At(i int) core.Record {
	if v.indices == nil {
		return v.ds.At(i)
	}
	return v.ds.At(v.indices[i])
}

// Each calls fn for every record in order until fn returns false.
func (v View) Each(fn func(core.Record) bool) {
	n := v.Len()
	for i := 0; i < n; i++ {
		if !fn(v.At(i)) {
			return
		}
	}
}

// Records copies the view's rows out.
func (v View) Records() []core.Record {
	out := make([]core.Record, 0, v.Len())
	v.Each(func(r core.Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Dataset returns the dataset the view reads from.
func (v View) Dataset() *core.Dataset {
	return v.ds
}

func (v View) parentIndex(i int) int {
	if v.indices == nil {
		return i
	}
	return v.indices[i]
}

func (v View) sub(indices []int) View {
	return View{ds: v.ds, indices: indices}
}
