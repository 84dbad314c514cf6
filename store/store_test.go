package store

import (
	"errors"
	"sync"
	"testing"
)

var allKinds = []Kind{KindDense, KindList, KindSynced}

func forEachKind(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	for _, k := range allKinds {
		t.Run(k.String(), func(t *testing.T) {
			fn(t, New(k, 16, 8))
		})
	}
}

func TestStore_PutGet(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		if s.Contains(3, 4) {
			t.Fatal("new store should be empty")
		}
		s.Put(Edit{X: 3, Y: 4, Lookup: Lookup{Col: 5, Row: 1}})
		got, ok := s.Get(3, 4)
		if !ok {
			t.Fatal("Get(3, 4) missing after Put")
		}
		if got != (Lookup{Col: 5, Row: 1}) {
			t.Errorf("Get(3, 4) = %v, want (5, 1)", got)
		}
		if s.Mods() != 1 {
			t.Errorf("Mods() = %d, want 1", s.Mods())
		}
	})
}

func TestStore_PutOverwriteKeepsCount(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		s.Put(Edit{X: 1, Y: 1, Lookup: Lookup{Col: 2}})
		s.Put(Edit{X: 1, Y: 1, Lookup: Lookup{Col: 9}})
		if s.Mods() != 1 {
			t.Errorf("Mods() = %d after overwrite, want 1", s.Mods())
		}
		got, _ := s.Get(1, 1)
		if got.Col != 9 {
			t.Errorf("overwrite lost: got %v", got)
		}
	})
}

func TestStore_Remove(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		s.Put(Edit{X: 0, Y: 0, Lookup: Lookup{Col: 3, Row: 2}})
		s.Put(Edit{X: 15, Y: 7, Lookup: Lookup{Col: 4}})

		e, err := s.Remove(0, 0)
		if err != nil {
			t.Fatalf("Remove(0, 0) = %v", err)
		}
		if e != (Edit{X: 0, Y: 0, Lookup: Lookup{Col: 3, Row: 2}}) {
			t.Errorf("Remove returned %+v", e)
		}
		if s.Contains(0, 0) {
			t.Error("position still present after Remove")
		}
		if s.Mods() != 1 {
			t.Errorf("Mods() = %d, want 1", s.Mods())
		}

		if _, err := s.Remove(0, 0); !errors.Is(err, ErrNotModified) {
			t.Errorf("second Remove error = %v, want ErrNotModified", err)
		}
		if s.Mods() != 1 {
			t.Errorf("failed Remove changed Mods to %d", s.Mods())
		}
	})
}

func TestStore_Region(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		s.Put(Edit{X: 2, Y: 2, Lookup: Lookup{Col: 7}})
		s.Put(Edit{X: 4, Y: 3, Lookup: Lookup{Col: 8}})
		s.Put(Edit{X: 9, Y: 3, Lookup: Lookup{Col: 9}}) // outside

		r := s.Region(2, 2, 3, 2)
		if r.Width() != 3 || r.Height() != 2 {
			t.Fatalf("region is %dx%d, want 3x2", r.Width(), r.Height())
		}
		if !r[0][0].OK || r[0][0].Lookup.Col != 7 {
			t.Errorf("r[0][0] = %+v", r[0][0])
		}
		if !r[1][2].OK || r[1][2].Lookup.Col != 8 {
			t.Errorf("r[1][2] = %+v", r[1][2])
		}
		if r.Present() != 2 {
			t.Errorf("Present() = %d, want 2", r.Present())
		}
	})
}

func TestStore_ForEachOrderAndStop(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		pts := [][2]int{{5, 3}, {0, 0}, {15, 7}, {1, 3}}
		for _, p := range pts {
			s.Put(Edit{X: p[0], Y: p[1]})
		}

		var got [][2]int
		s.ForEach(func(e Edit) bool {
			got = append(got, [2]int{e.X, e.Y})
			return true
		})
		want := [][2]int{{0, 0}, {1, 3}, {5, 3}, {15, 7}}
		if len(got) != len(want) {
			t.Fatalf("visited %d edits, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("visit %d = %v, want %v", i, got[i], want[i])
			}
		}

		n := 0
		s.ForEach(func(Edit) bool {
			n++
			return n < 2
		})
		if n != 2 {
			t.Errorf("early stop visited %d, want 2", n)
		}
	})
}

func TestStore_CopyIntoAcrossKinds(t *testing.T) {
	src := NewList(16, 8)
	src.Put(Edit{X: 1, Y: 2, Lookup: Lookup{Col: 1}})
	src.Put(Edit{X: 3, Y: 4, Lookup: Lookup{Col: 2}})

	for _, k := range allKinds {
		dst := Clone(k, src)
		if dst.Mods() != 2 {
			t.Errorf("%v: Mods() = %d, want 2", k, dst.Mods())
		}
		if l, ok := dst.Get(3, 4); !ok || l.Col != 2 {
			t.Errorf("%v: Get(3, 4) = %v, %v", k, l, ok)
		}
	}
}

func TestStore_OutOfDomainPanics(t *testing.T) {
	forEachKind(t, func(t *testing.T, s Store) {
		defer func() {
			if recover() == nil {
				t.Error("Put outside the domain did not panic")
			}
		}()
		s.Put(Edit{X: 16, Y: 0})
	})
}

func TestStore_RegionOutOfDomainPanics(t *testing.T) {
	rects := []struct {
		name       string
		x, y, w, h int
	}{
		{"outside", 20, 0, 2, 2},
		{"overhang", 15, 7, 2, 2},
		{"negative", -1, 0, 2, 2},
	}
	forEachKind(t, func(t *testing.T, s Store) {
		s.Put(Edit{X: 15, Y: 7})
		for _, r := range rects {
			t.Run(r.name, func(t *testing.T) {
				defer func() {
					if recover() == nil {
						t.Errorf("Region(%d, %d, %d, %d) did not panic", r.x, r.y, r.w, r.h)
					}
				}()
				s.Region(r.x, r.y, r.w, r.h)
			})
		}
	})
}

func TestStore_ConcurrentBackends(t *testing.T) {
	for _, k := range []Kind{KindDense, KindSynced} {
		t.Run(k.String(), func(t *testing.T) {
			s := New(k, 64, 64)
			var wg sync.WaitGroup
			for g := range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for y := g * 8; y < (g+1)*8; y++ {
						for x := range 64 {
							s.Put(Edit{X: x, Y: y, Lookup: Lookup{Col: uint8(g)}})
							_ = s.Region(0, 0, 4, 4)
						}
					}
				}()
			}
			wg.Wait()
			if s.Mods() != 64*64 {
				t.Errorf("Mods() = %d, want %d", s.Mods(), 64*64)
			}
		})
	}
}

func TestNewRegion_Invalid(t *testing.T) {
	if r := NewRegion(0, 3); r != nil {
		t.Errorf("NewRegion(0, 3) = %v, want nil", r)
	}
}

func BenchmarkStore_Put(b *testing.B) {
	for _, k := range allKinds {
		b.Run(k.String(), func(b *testing.B) {
			s := New(k, 256, 256)
			b.ReportAllocs()
			i := 0
			for b.Loop() {
				s.Put(Edit{X: i & 255, Y: (i >> 8) & 15})
				i++
			}
		})
	}
}
