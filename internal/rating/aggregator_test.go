package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	ratings []int
	readErr error
	written float64
	writes  int
}

func (f *fakeStore) RatingsFor(context.Context, uuid.UUID) ([]int, error) {
	return f.ratings, f.readErr
}

func (f *fakeStore) SetAverageRating(_ context.Context, _ uuid.UUID, average float64) error {
	f.written = average
	f.writes++
	return nil
}

func TestMean(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0.0},
		{"single", []int{4}, 4.0},
		{"mixed", []int{5, 4, 4, 2}, 3.75},
		{"all fives", []int{5, 5, 5}, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.ratings); got != tt.want {
				t.Fatalf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestRecompute_WritesMean(t *testing.T) {
	store := &fakeStore{ratings: []int{5, 3}}
	average, err := New(store).Recompute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if average != 4.0 || store.written != 4.0 {
		t.Fatalf("expected 4.0 written, got returned=%f written=%f", average, store.written)
	}
}

func TestRecompute_NoWriteOnReadError(t *testing.T) {
	store := &fakeStore{readErr: errors.New("boom")}
	if _, err := New(store).Recompute(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
	if store.writes != 0 {
		t.Fatalf("expected no write after read failure, got %d", store.writes)
	}
}
