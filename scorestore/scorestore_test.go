package scorestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "score.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLastEmpty(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Last(context.Background()); !errors.Is(err, ErrNoScore) {
		t.Fatalf("err = %v, want ErrNoScore", err)
	}
}

func TestSaveAndLast(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	at := time.Unix(1700000000, 0)

	if err := s.Save(ctx, LastScore{Score: 40, TotalQuestions: 64, SavedAt: at}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, LastScore{Score: 12, TotalQuestions: 20, SavedAt: at}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got.Score != 12 || got.TotalQuestions != 20 || !got.SavedAt.Equal(at) {
		t.Fatalf("Last = %+v", got)
	}
}

func TestSaveIgnoresEmptyRunsAndClamps(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if err := s.Save(ctx, LastScore{Score: 3, TotalQuestions: 0}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Last(ctx); !errors.Is(err, ErrNoScore) {
		t.Fatalf("empty run was stored: %v", err)
	}

	if err := s.Save(ctx, LastScore{Score: -5, TotalQuestions: 4}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got.Score != 0 {
		t.Fatalf("score = %d, want clamped 0", got.Score)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	if err := s.Save(ctx, LastScore{Score: 1, TotalQuestions: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Last(ctx); !errors.Is(err, ErrNoScore) {
		t.Fatalf("err = %v after Clear", err)
	}
}

func TestReopenKeepsScore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "score.db")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save(ctx, LastScore{Score: 7, TotalQuestions: 9}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Last(ctx)
	if err != nil || got.Score != 7 || got.TotalQuestions != 9 {
		t.Fatalf("Last after reopen = %+v, %v", got, err)
	}
}
