package storage

import (
	"context"
	"errors"
	"testing"
)

func TestStoreWithoutPool(t *testing.T) {
	cases := map[string]*Store{
		"nil store": nil,
		"nil pool":  NewStore(nil),
	}

	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := s.EnsureSchema(ctx); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("EnsureSchema err = %v, want ErrNotConfigured", err)
			}
			if err := s.InsertCycle(ctx, ArchivedCycle{}); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("InsertCycle err = %v, want ErrNotConfigured", err)
			}
			if _, err := s.ListRecentCycles(ctx, 5); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("ListRecentCycles err = %v, want ErrNotConfigured", err)
			}
			if _, err := s.CountCycles(ctx); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("CountCycles err = %v, want ErrNotConfigured", err)
			}

			// Close without a pool must be a no-op, not a panic.
			s.Close()
		})
	}
}
