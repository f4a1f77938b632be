package settle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPair_IndependentFailure(t *testing.T) {
	errProbe := errors.New("no session")

	ra, rb := Pair(context.Background(),
		func(context.Context) (string, error) { return "", errProbe },
		func(context.Context) (int, error) { return 42, nil },
	)

	if ra.Ok() || !errors.Is(ra.Err, errProbe) {
		t.Fatalf("expected first branch to fail with errProbe, got %+v", ra)
	}
	if !rb.Ok() || rb.Value != 42 {
		t.Fatalf("second branch result lost: %+v", rb)
	}
}

func TestPair_RunsConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	done := make(chan struct{})
	go func() {
		Pair(context.Background(),
			func(context.Context) (int, error) {
				started <- struct{}{}
				<-release
				return 1, nil
			},
			func(context.Context) (int, error) {
				started <- struct{}{}
				<-release
				return 2, nil
			},
		)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatalf("branch %d never started while the other was blocked", i+1)
		}
	}
	close(release)
	<-done
}

func TestPair_PanicBecomesError(t *testing.T) {
	ra, rb := Pair(context.Background(),
		func(context.Context) (int, error) { panic("kaboom") },
		func(context.Context) (int, error) { return 7, nil },
	)
	if ra.Err == nil {
		t.Fatalf("expected panic converted into an error")
	}
	if rb.Value != 7 {
		t.Fatalf("sibling branch affected by panic: %+v", rb)
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	results := All(context.Background(),
		func(context.Context) (int, error) { time.Sleep(10 * time.Millisecond); return 1, nil },
		func(context.Context) (int, error) { return 0, errors.New("second") },
		func(context.Context) (int, error) { return 3, nil },
	)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Value != 1 || results[1].Ok() || results[2].Value != 3 {
		t.Fatalf("unexpected results: %+v", results)
	}
}
