package world

import (
	"testing"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/broadphase"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

func benchPyramid(b *testing.B, bp broadphase.Broadphase, rows int) *World {
	b.Helper()
	cfg := DefaultConfig()
	cfg.Broadphase = bp
	cfg.SleepMode = NoSleeping
	w, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	ground, _ := body.New(body.Options{})
	ground.AddShape(shape.NewPlane(), vec.Zero, 0)
	if err := w.AddBody(ground); err != nil {
		b.Fatal(err)
	}
	for row := 0; row < rows; row++ {
		for i := 0; i < rows-row; i++ {
			x := float64(i) - float64(rows-row)/2 + 0.5
			bd, _ := body.New(body.Options{Mass: 1, Position: vec.New(x*1.05, 0.5+float64(row))})
			box, _ := shape.NewBox(1, 1)
			bd.AddShape(box, vec.Zero, 0)
			if err := w.AddBody(bd); err != nil {
				b.Fatal(err)
			}
		}
	}
	return w
}

func BenchmarkStepPyramidSAP(b *testing.B) {
	w := benchPyramid(b, broadphase.NewSAP(), 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.internalStep(1.0 / 60)
	}
}

func BenchmarkStepPyramidNaive(b *testing.B) {
	w := benchPyramid(b, broadphase.NewNaive(), 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.internalStep(1.0 / 60)
	}
}
