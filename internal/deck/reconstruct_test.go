package deck

import (
	"testing"

	"github.com/hitoshi/tarotman/internal/model"
)

func catalogCards() []model.Card {
	return []model.Card{
		{ID: 9, Rank: 9, Name: "隠者", Suit: "大アルカナ", Element: "地", MeaningUp: "内省", MeaningDown: "孤立"},
		{ID: 2, Rank: 2, Name: "女教皇", Suit: "大アルカナ", Element: "水", MeaningUp: "直感", MeaningDown: "秘密"},
		{ID: 5, Rank: 5, Name: "教皇", Suit: "大アルカナ", Element: "地", MeaningUp: "伝統", MeaningDown: "束縛"},
	}
}

func TestReconstruct_RestoresDrawOrder(t *testing.T) {
	// ストレージ層は順序を保証しないため、行の並びとorderが食い違うケースを再現する
	order := []int{5, 2, 9}
	src := &scriptedRand{values: []int{1, 0, 1}}

	result := Reconstruct(order, catalogCards(), src)

	if len(result) != 3 {
		t.Fatalf("result length = %d, want 3", len(result))
	}
	for i, id := range order {
		if result[i].ID != id {
			t.Errorf("result[%d].ID = %d, want %d", i, result[i].ID, id)
		}
	}
}

func TestReconstruct_OrientationPerPosition(t *testing.T) {
	order := []int{5, 2, 9}
	// 1=正位置、0=逆位置の順で判定される
	src := &scriptedRand{values: []int{1, 0, 1}}

	result := Reconstruct(order, catalogCards(), src)

	wantOrientations := []model.Orientation{
		model.OrientationUpright,
		model.OrientationReversed,
		model.OrientationUpright,
	}
	wantMeanings := []string{"伝統", "秘密", "内省"}

	for i := range result {
		if result[i].Orientation != wantOrientations[i] {
			t.Errorf("result[%d].Orientation = %q, want %q", i, result[i].Orientation, wantOrientations[i])
		}
		if result[i].Meaning != wantMeanings[i] {
			t.Errorf("result[%d].Meaning = %q, want %q", i, result[i].Meaning, wantMeanings[i])
		}
	}
}

func TestReconstruct_MissingCatalogRowIsDropped(t *testing.T) {
	// id=42はカタログ行に存在しない。クラッシュせず該当位置だけ欠落する
	order := []int{5, 42, 9}
	src := &scriptedRand{values: []int{1, 1, 1}}

	result := Reconstruct(order, catalogCards(), src)

	if len(result) != 2 {
		t.Fatalf("result length = %d, want 2", len(result))
	}
	if result[0].ID != 5 || result[1].ID != 9 {
		t.Errorf("result ids = [%d, %d], want [5, 9]", result[0].ID, result[1].ID)
	}
}

func TestReconstructStored_UsesDirectionString(t *testing.T) {
	order := []int{9, 5, 2}
	result := ReconstructStored(order, catalogCards(), "101")

	if len(result) != 3 {
		t.Fatalf("result length = %d, want 3", len(result))
	}

	wantOrientations := []model.Orientation{
		model.OrientationUpright,
		model.OrientationReversed,
		model.OrientationUpright,
	}
	wantMeanings := []string{"内省", "束縛", "直感"}

	for i := range result {
		if result[i].Orientation != wantOrientations[i] {
			t.Errorf("result[%d].Orientation = %q, want %q", i, result[i].Orientation, wantOrientations[i])
		}
		if result[i].Meaning != wantMeanings[i] {
			t.Errorf("result[%d].Meaning = %q, want %q", i, result[i].Meaning, wantMeanings[i])
		}
	}
}

func TestReconstructStored_ShortDirectionDefaultsToReversed(t *testing.T) {
	order := []int{9, 5, 2}
	result := ReconstructStored(order, catalogCards(), "1")

	if len(result) != 3 {
		t.Fatalf("result length = %d, want 3", len(result))
	}
	if result[0].Orientation != model.OrientationUpright {
		t.Errorf("result[0].Orientation = %q, want upright", result[0].Orientation)
	}
	for i := 1; i < 3; i++ {
		if result[i].Orientation != model.OrientationReversed {
			t.Errorf("result[%d].Orientation = %q, want reversed", i, result[i].Orientation)
		}
	}
}

func TestAssignOrientation_CoinFlip(t *testing.T) {
	card := catalogCards()[0]

	up := AssignOrientation(card, &scriptedRand{values: []int{1}})
	if up.Orientation != model.OrientationUpright {
		t.Errorf("orientation = %q, want upright", up.Orientation)
	}
	if up.Meaning != card.MeaningUp {
		t.Errorf("meaning = %q, want %q", up.Meaning, card.MeaningUp)
	}

	down := AssignOrientation(card, &scriptedRand{values: []int{0}})
	if down.Orientation != model.OrientationReversed {
		t.Errorf("orientation = %q, want reversed", down.Orientation)
	}
	if down.Meaning != card.MeaningDown {
		t.Errorf("meaning = %q, want %q", down.Meaning, card.MeaningDown)
	}
}

func TestOrient_CopiesCatalogFields(t *testing.T) {
	card := catalogCards()[1]
	dc := Orient(card, model.OrientationUpright)

	if dc.ID != card.ID || dc.Rank != card.Rank || dc.Name != card.Name {
		t.Errorf("identity fields not copied: %+v", dc)
	}
	if dc.Suit != card.Suit || dc.Element != card.Element {
		t.Errorf("join fields not copied: %+v", dc)
	}
}
