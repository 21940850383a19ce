package question

import (
	"sort"

	"github.com/talkready/opic-backend/internal/model"
)

// CatalogSection is one multi-select group of the survey form.
type CatalogSection struct {
	Options   []string `json:"options"`
	MinSelect int      `json:"min_select"`
}

// Catalog lists every selectable option of the background survey form.
// The multi-select sections are derived from the question tables, so the
// form can only offer tags the engine knows about.
type Catalog struct {
	Occupations        []model.Occupation `json:"occupations"`
	RecentCourses      []string           `json:"recent_courses"`
	LivingArrangements []string           `json:"living_arrangements"`
	LeisureActivities  CatalogSection     `json:"leisure_activities"`
	Hobbies            CatalogSection     `json:"hobbies"`
	Sports             CatalogSection     `json:"sports"`
	TravelExperience   CatalogSection     `json:"travel_experience"`
}

var recentCourseOptions = []string{
	"Degree program courses",
	"Continuing education for professional development",
	"Language courses",
	"More than five years since my last course",
}

var livingArrangementOptions = []string{
	"Alone in a house or apartment",
	"With friends or roommates in a house or apartment",
	"With family in a house or apartment",
	"School dormitory",
	"Military housing",
}

// SurveyCatalog returns the full survey form catalog. The returned value
// is freshly built on each call; callers may modify it.
func SurveyCatalog() Catalog {
	return Catalog{
		Occupations: []model.Occupation{
			model.OccupationBusiness,
			model.OccupationHomeBased,
			model.OccupationTeacher,
			model.OccupationNone,
		},
		RecentCourses:      append([]string(nil), recentCourseOptions...),
		LivingArrangements: append([]string(nil), livingArrangementOptions...),
		LeisureActivities:  CatalogSection{Options: sortedTags(leisureQuestions), MinSelect: 2},
		Hobbies:            CatalogSection{Options: sortedTags(hobbyQuestions), MinSelect: 1},
		Sports:             CatalogSection{Options: sortedTags(sportQuestions), MinSelect: 1},
		TravelExperience:   CatalogSection{Options: sortedTags(travelQuestions), MinSelect: 1},
	}
}

// ValidateSelections checks a survey payload's free-text selections
// against the catalog. Returns a field→message map of violations, empty
// when everything is selectable.
func ValidateSelections(req *model.UpdateSurveyRequest) map[string]string {
	fields := make(map[string]string)

	if req.RecentCourse != "" && !contains(recentCourseOptions, req.RecentCourse) {
		fields["recent_course"] = "unknown option: " + req.RecentCourse
	}
	if !contains(livingArrangementOptions, req.LivingArrangement) {
		fields["living_arrangement"] = "unknown option: " + req.LivingArrangement
	}

	checkTags(fields, "leisure_activities", leisureQuestions, req.LeisureActivities)
	checkTags(fields, "hobbies", hobbyQuestions, req.Hobbies)
	checkTags(fields, "sports", sportQuestions, req.Sports)
	checkTags(fields, "travel_experience", travelQuestions, req.TravelExperience)

	return fields
}

func checkTags(fields map[string]string, field string, table map[string][]string, selected []string) {
	for _, tag := range selected {
		if _, ok := table[tag]; !ok {
			fields[field] = "unknown option: " + tag
			return
		}
	}
}

func contains(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}

func sortedTags(table map[string][]string) []string {
	tags := make([]string, 0, len(table))
	for tag := range table {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
