package deck

import (
	"errors"
	"testing"

	"github.com/hitoshi/tarotman/internal/model"
)

// scriptedRand は事前に決めた乱数列を順番に返すRandSource。
type scriptedRand struct {
	values []int
	pos    int
}

func (s *scriptedRand) IntN(n int) int {
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

func TestSample_ReturnsDistinctInRangeIDs(t *testing.T) {
	src := SystemRandSource()

	for count := 1; count <= model.DeckSize; count++ {
		drawn, err := Sample(count, src)
		if err != nil {
			t.Fatalf("Sample(%d) returned error: %v", count, err)
		}
		if len(drawn) != count {
			t.Fatalf("Sample(%d) returned %d cards", count, len(drawn))
		}

		seen := make(map[int]struct{}, count)
		for _, id := range drawn {
			if id < 0 || id >= model.DeckSize {
				t.Errorf("Sample(%d) returned out-of-range id %d", count, id)
			}
			if _, dup := seen[id]; dup {
				t.Errorf("Sample(%d) returned duplicate id %d", count, id)
			}
			seen[id] = struct{}{}
		}
	}
}

func TestSample_FullDeckIsPermutation(t *testing.T) {
	drawn, err := Sample(model.DeckSize, SystemRandSource())
	if err != nil {
		t.Fatalf("Sample(%d) returned error: %v", model.DeckSize, err)
	}

	seen := make(map[int]struct{}, model.DeckSize)
	for _, id := range drawn {
		seen[id] = struct{}{}
	}
	if len(seen) != model.DeckSize {
		t.Errorf("full-deck draw covered %d distinct ids, want %d", len(seen), model.DeckSize)
	}
}

func TestSample_CountTooLow(t *testing.T) {
	for _, count := range []int{0, -1, -78} {
		_, err := Sample(count, SystemRandSource())
		if err == nil {
			t.Fatalf("Sample(%d) should return error", count)
		}
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("Sample(%d) error is not APIError: %v", count, err)
		}
		if apiErr.Code != model.ErrCodeCountTooLow {
			t.Errorf("Sample(%d) code = %q, want %q", count, apiErr.Code, model.ErrCodeCountTooLow)
		}
	}
}

func TestSample_CountTooHigh(t *testing.T) {
	_, err := Sample(model.DeckSize+1, SystemRandSource())
	if err == nil {
		t.Fatal("Sample(79) should return error")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not APIError: %v", err)
	}
	if apiErr.Code != model.ErrCodeCountTooHigh {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeCountTooHigh)
	}
}

// TestSample_Deterministic は注入した乱数列でswap-removeの挙動を固定的に検証する。
func TestSample_Deterministic(t *testing.T) {
	// プール: [0..77]
	// 1枚目: idx0 -> カード0、末尾77がidx0に入る
	// 2枚目: idx0 -> カード77、末尾76がidx0に入る
	// 3枚目: idx1 -> カード1
	src := &scriptedRand{values: []int{0, 0, 1}}

	drawn, err := Sample(3, src)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}

	want := []int{0, 77, 1}
	for i := range want {
		if drawn[i] != want[i] {
			t.Errorf("drawn[%d] = %d, want %d (full: %v)", i, drawn[i], want[i], drawn)
		}
	}
}
