package memo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nurtra/nurtra/internal/memo"
)

func TestGetFetchesOnce(t *testing.T) {
	calls := 0
	v := memo.New(func(context.Context) (int, error) {
		calls++
		return 42, nil
	})

	for i := 0; i < 3; i++ {
		got, err := v.Get(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got != 42 {
			t.Errorf("Get() = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
}

func TestFailedFetchIsRemembered(t *testing.T) {
	fetchErr := errors.New("backend down")
	calls := 0
	v := memo.New(func(context.Context) (bool, error) {
		calls++
		return false, fetchErr
	})

	// The check happens once per session even when it fails.
	for i := 0; i < 3; i++ {
		if _, err := v.Get(context.Background()); !errors.Is(err, fetchErr) {
			t.Errorf("Get() err = %v, want %v", err, fetchErr)
		}
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times after failure, want 1", calls)
	}
}

func TestInvalidateRefetches(t *testing.T) {
	calls := 0
	v := memo.New(func(context.Context) (int, error) {
		calls++
		return calls, nil
	})

	if got, _ := v.Get(context.Background()); got != 1 {
		t.Errorf("first Get() = %d, want 1", got)
	}
	if !v.Done() {
		t.Error("Done() = false after Get")
	}

	v.Invalidate()
	if v.Done() {
		t.Error("Done() = true after Invalidate")
	}
	if got, _ := v.Get(context.Background()); got != 2 {
		t.Errorf("Get() after Invalidate = %d, want 2", got)
	}
}
