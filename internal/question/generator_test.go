package question

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/talkready/opic-backend/internal/model"
)

func fullProfile() *model.SurveyProfile {
	return &model.SurveyProfile{
		Occupation:        model.OccupationBusiness,
		IsStudent:         model.Yes,
		LivingArrangement: "Alone in a house or apartment",
		LeisureActivities: []string{"Watching movies", "Going to the park", "Shopping", "Going to cafes"},
		Hobbies:           []string{"Listening to music"},
		Sports:            []string{"Swimming"},
		TravelExperience:  []string{"Domestic travel", "Overseas travel"},
	}
}

func emptyProfile() *model.SurveyProfile {
	return &model.SurveyProfile{
		Occupation: model.OccupationNone,
		IsStudent:  model.No,
	}
}

// isSudden reports whether q belongs to any sudden-topic set.
func isSudden(q string) bool {
	for _, qs := range suddenQuestions {
		for _, s := range qs {
			if s == q {
				return true
			}
		}
	}
	return false
}

func isRolePlay(q string) bool {
	for _, s := range rolePlayPool {
		if s == q {
			return true
		}
	}
	return false
}

func TestGenerateAlwaysFifteenQuestions(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		qs, err := Generate(fullProfile(), rng)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		if len(qs) != SequenceLength {
			t.Fatalf("seed %d: got %d questions, want %d", seed, len(qs), SequenceLength)
		}
		if qs[0] != SelfIntroduction {
			t.Fatalf("seed %d: first question = %q, want the self-introduction", seed, qs[0])
		}
	}
}

func TestGenerateDeterministicForFixedSeed(t *testing.T) {
	a, err := Generate(fullProfile(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(fullProfile(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("question %d differs between identical seeds:\n%q\n%q", i, a[i], b[i])
		}
	}
}

func TestGenerateNoDuplicateQuestions(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		qs, err := Generate(fullProfile(), rng)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		seen := make(map[string]bool, len(qs))
		for _, q := range qs {
			if seen[q] {
				t.Fatalf("seed %d: question repeated: %q", seed, q)
			}
			seen[q] = true
		}
	}
}

func TestGenerateBlockComposition(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		qs, err := Generate(fullProfile(), rng)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}

		var sudden, rolePlay int
		for _, q := range qs {
			switch {
			case isSudden(q):
				sudden++
			case isRolePlay(q):
				rolePlay++
			}
		}

		if rolePlay != 3 {
			t.Fatalf("seed %d: %d role-play questions, want exactly 3", seed, rolePlay)
		}
		// One or two sudden sets of three questions each.
		if sudden != 3 && sudden != 6 {
			t.Fatalf("seed %d: %d sudden questions, want 3 or 6", seed, sudden)
		}
		// Whatever is left is intro + survey questions, completing 15.
		if survey := len(qs) - 1 - sudden - rolePlay; survey != SequenceLength-1-sudden-rolePlay {
			t.Fatalf("seed %d: inconsistent survey share %d", seed, survey)
		}
	}
}

func TestGenerateNoSurveySets(t *testing.T) {
	_, err := Generate(emptyProfile(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrNoSurveySets) {
		t.Fatalf("got %v, want ErrNoSurveySets", err)
	}

	_, err = Generate(nil, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrNoSurveySets) {
		t.Fatalf("nil profile: got %v, want ErrNoSurveySets", err)
	}
}

func TestGenerateShortTagsDoNotQualify(t *testing.T) {
	// Every chosen tag has fewer than three canned questions, so none can
	// form a set and generation must fail the same way as an empty survey.
	p := emptyProfile()
	p.LeisureActivities = []string{"Going to the beach", "Camping", "Watching reality shows"}
	p.TravelExperience = []string{"General travel", "Domestic travel", "Overseas travel"}

	_, err := Generate(p, rand.New(rand.NewSource(7)))
	if !errors.Is(err, ErrNoSurveySets) {
		t.Fatalf("got %v, want ErrNoSurveySets", err)
	}
}

func TestGenerateInsufficientSurveySets(t *testing.T) {
	// A single candidate set is consumed by the two-combo, leaving nothing
	// for the remaining survey blocks.
	p := emptyProfile()
	p.IsStudent = model.Yes

	for seed := int64(0); seed < 50; seed++ {
		_, err := Generate(p, rand.New(rand.NewSource(seed)))
		if !errors.Is(err, ErrInsufficientSurveySets) {
			t.Fatalf("seed %d: got %v, want ErrInsufficientSurveySets", seed, err)
		}
	}
}

func TestGenerateExactlyEnoughSurveySets(t *testing.T) {
	// Three candidates: one goes to the two-combo, the remaining two cover
	// the worst case of two remaining survey blocks.
	p := emptyProfile()
	p.Occupation = model.OccupationBusiness
	p.IsStudent = model.Yes
	p.Hobbies = []string{"Listening to music"}

	for seed := int64(0); seed < 100; seed++ {
		qs, err := Generate(p, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		if len(qs) != SequenceLength {
			t.Fatalf("seed %d: got %d questions, want %d", seed, len(qs), SequenceLength)
		}
	}
}

func TestSuddenCatalogIntegrity(t *testing.T) {
	if len(suddenTopics) != 14 {
		t.Fatalf("sudden catalog has %d topics, want 14", len(suddenTopics))
	}
	for _, topic := range suddenTopics {
		if n := len(suddenQuestions[topic]); n != 3 {
			t.Fatalf("sudden topic %q has %d questions, want 3", topic, n)
		}
	}
}

func TestSelfIntroductionExactText(t *testing.T) {
	// The question text travels in the submission payload; the scoring
	// gateway matches it verbatim.
	const want = "Let's start the interview now. Tell me a little bit about yourself"
	if SelfIntroduction != want {
		t.Fatalf("self-introduction = %q, want %q", SelfIntroduction, want)
	}
}
