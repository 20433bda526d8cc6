package resource

import (
	"sync"
	"testing"
)

func TestStore_HandleReuse(t *testing.T) {
	s := NewStore()

	h1, _ := s.Create(1)
	h2, _ := s.Create(2)
	h3, _ := s.Create(3)

	s.Drop(h2)
	s.Drop(h1)

	h4, _ := s.Create(4)
	h5, _ := s.Create(5)

	if s.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", s.Len())
	}

	for _, h := range []Handle{h3, h4, h5} {
		if _, ok := s.Get(h); !ok {
			t.Fatalf("handle %d should be valid", h)
		}
	}
	for _, h := range []Handle{h1, h2} {
		if _, ok := s.Get(h); ok {
			t.Fatalf("dropped handle %d should stay invalid", h)
		}
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore()
	s.Create("a")
	h, _ := s.Create("b")
	s.Drop(h)

	remaining := s.Close()
	if len(remaining) != 1 || remaining[0] != "a" {
		t.Fatalf("Expected [a], got %v", remaining)
	}
	if again := s.Close(); again != nil {
		t.Fatalf("Second Close should return nothing, got %v", again)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, err := s.Create(id)
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			if v, ok := s.Get(h); !ok || v != id {
				t.Errorf("Get(%d) = %v, %v", h, v, ok)
			}
			s.Drop(h)
		}(i)
	}

	wg.Wait()

	if s.Len() != 0 {
		t.Fatalf("Expected empty store, got %d", s.Len())
	}
}
