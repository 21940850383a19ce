package question

import (
	"sort"
	"testing"

	"github.com/talkready/opic-backend/internal/model"
)

func TestSurveyCatalogCoversTables(t *testing.T) {
	cat := SurveyCatalog()

	if len(cat.Occupations) != 4 {
		t.Fatalf("occupations = %d, want 4", len(cat.Occupations))
	}
	if got, want := len(cat.LeisureActivities.Options), len(leisureQuestions); got != want {
		t.Fatalf("leisure options = %d, want %d", got, want)
	}
	if !sort.StringsAreSorted(cat.LeisureActivities.Options) {
		t.Fatal("leisure options not sorted")
	}
	if cat.LeisureActivities.MinSelect != 2 {
		t.Fatalf("leisure min_select = %d, want 2", cat.LeisureActivities.MinSelect)
	}
	for _, sec := range []CatalogSection{cat.Hobbies, cat.Sports, cat.TravelExperience} {
		if len(sec.Options) == 0 {
			t.Fatal("empty catalog section")
		}
		if sec.MinSelect != 1 {
			t.Fatalf("min_select = %d, want 1", sec.MinSelect)
		}
	}
}

func TestValidateSelections(t *testing.T) {
	req := &model.UpdateSurveyRequest{
		Occupation:        model.OccupationNone,
		IsStudent:         model.Yes,
		RecentCourse:      "Language courses",
		LivingArrangement: "Alone in a house or apartment",
		LeisureActivities: []string{"Watching movies", "Camping"},
		Hobbies:           []string{"Listening to music"},
		Sports:            []string{"Swimming"},
		TravelExperience:  []string{"Domestic travel"},
	}
	if fields := ValidateSelections(req); len(fields) != 0 {
		t.Fatalf("valid request rejected: %v", fields)
	}

	req.Sports = []string{"Underwater basket weaving"}
	req.LivingArrangement = "On a boat"
	fields := ValidateSelections(req)
	if _, ok := fields["sports"]; !ok {
		t.Fatal("unknown sport not flagged")
	}
	if _, ok := fields["living_arrangement"]; !ok {
		t.Fatal("unknown living arrangement not flagged")
	}
}
