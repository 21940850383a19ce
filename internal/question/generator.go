// Package question builds the fixed-length question sequence for one exam
// session from a respondent's background survey.
package question

import (
	"errors"
	"math/rand"

	"github.com/talkready/opic-backend/internal/model"
)

// Generation errors. Both are preconditions of the respondent's survey
// profile: the exam cannot start without a valid sequence, so callers
// surface them instead of retrying.
var (
	// ErrNoSurveySets means the profile produced zero usable survey-linked
	// question sets (no employment/student match and no category tag with a
	// full table entry).
	ErrNoSurveySets = errors.New("no survey-linked question sets available")

	// ErrInsufficientSurveySets means the profile produced too few
	// survey-linked sets to fill the remaining combo blocks.
	ErrInsufficientSurveySets = errors.New("not enough survey-linked question sets remaining")
)

// SequenceLength is the number of questions in every generated exam:
// 1 intro + 2 two-combo + 4 blocks of 3.
const SequenceLength = 15

const (
	setSize          = 3 // questions per combo block
	twoComboSize     = 2 // questions taken from the two-combo set
	threeComboBlocks = 4 // sudden + role-play + remaining survey blocks
	rolePlayBlocks   = 1
)

// Set is one topic's question group as drawn by the generator.
type Set struct {
	Topic     string
	Questions []string
}

// Generate produces the ordered question sequence for one exam session.
// It is deterministic for a fixed rng and always returns exactly
// SequenceLength questions on success:
//
//	1 self-introduction
//	2 questions from one survey-linked set (the two-combo)
//	4 blocks of 3: S sudden-topic sets (S is 1 or 2), one role-play block,
//	and 3-S further survey-linked sets
//
// No survey-linked topic is used twice, and sudden topics and role-play
// prompts are drawn without replacement.
func Generate(profile *model.SurveyProfile, rng *rand.Rand) ([]string, error) {
	if profile == nil {
		return nil, ErrNoSurveySets
	}

	out := make([]string, 0, SequenceLength)
	out = append(out, SelfIntroduction)

	survey := newPool(surveyLinkedSets(profile))
	if survey.remaining() == 0 {
		return nil, ErrNoSurveySets
	}

	twoCombo := survey.draw(rng)
	out = append(out, twoCombo.Questions[:twoComboSize]...)

	suddenCount := 1 + rng.Intn(2)

	sudden := newPool(suddenSets())
	for i := 0; i < suddenCount; i++ {
		out = append(out, sudden.draw(rng).Questions...)
	}

	rolePlay := newPool(rolePlayPool)
	for i := 0; i < setSize; i++ {
		out = append(out, rolePlay.draw(rng))
	}

	remaining := threeComboBlocks - suddenCount - rolePlayBlocks
	if survey.remaining() < remaining {
		return nil, ErrInsufficientSurveySets
	}
	for i := 0; i < remaining; i++ {
		out = append(out, survey.draw(rng).Questions...)
	}

	return out, nil
}

// surveyLinkedSets builds the candidate sets the profile qualifies for.
// A category tag only qualifies when its table entry holds at least
// setSize questions; qualifying entries contribute exactly setSize,
// in stored order.
func surveyLinkedSets(p *model.SurveyProfile) []Set {
	var sets []Set

	if p.Occupation == model.OccupationBusiness {
		sets = append(sets, Set{Topic: TopicWorkplace, Questions: workplaceQuestions})
	}
	if p.IsStudent == model.Yes {
		sets = append(sets, Set{Topic: TopicSchool, Questions: schoolQuestions})
	}

	sets = appendTagSets(sets, p.LeisureActivities, leisureQuestions)
	sets = appendTagSets(sets, p.Hobbies, hobbyQuestions)
	sets = appendTagSets(sets, p.Sports, sportQuestions)
	sets = appendTagSets(sets, p.TravelExperience, travelQuestions)

	return sets
}

func appendTagSets(dst []Set, tags []string, table map[string][]string) []Set {
	for _, tag := range tags {
		qs, ok := table[tag]
		if !ok || len(qs) < setSize {
			continue
		}
		dst = append(dst, Set{Topic: tag, Questions: qs[:setSize]})
	}
	return dst
}

func suddenSets() []Set {
	sets := make([]Set, 0, len(suddenTopics))
	for _, topic := range suddenTopics {
		sets = append(sets, Set{Topic: topic, Questions: suddenQuestions[topic]})
	}
	return sets
}

// pool supports uniform draw-without-replacement over an owned slice.
// The backing slice is copied on construction, so draws never alias the
// static tables.
type pool[T any] struct {
	items []T
}

func newPool[T any](items []T) *pool[T] {
	owned := make([]T, len(items))
	copy(owned, items)
	return &pool[T]{items: owned}
}

func (p *pool[T]) remaining() int { return len(p.items) }

// draw removes and returns a uniformly random element. The caller must
// ensure the pool is non-empty.
func (p *pool[T]) draw(rng *rand.Rand) T {
	i := rng.Intn(len(p.items))
	last := len(p.items) - 1
	item := p.items[i]
	p.items[i] = p.items[last]
	p.items = p.items[:last]
	return item
}
