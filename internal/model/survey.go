package model

// Occupation enumerates the survey's employment field choices.
type Occupation string

const (
	OccupationBusiness  Occupation = "BUSINESS_COMPANY"
	OccupationHomeBased Occupation = "HOME_BASED"
	OccupationTeacher   Occupation = "TEACHER_EDUCATOR"
	OccupationNone      Occupation = "NO_WORK_EXPERIENCE"
)

// YesNo is the survey's boolean-like answer type.
type YesNo string

const (
	Yes YesNo = "YES"
	No  YesNo = "NO"
)

// SurveyProfile is a respondent's background survey. Immutable for the
// duration of an exam session once loaded.
type SurveyProfile struct {
	RespondentID      int        `json:"-"`
	Occupation        Occupation `json:"occupation"`
	IsStudent         YesNo      `json:"is_student"`
	RecentCourse      string     `json:"recent_course,omitempty"`
	LivingArrangement string     `json:"living_arrangement"`
	LeisureActivities []string   `json:"leisure_activities"`
	Hobbies           []string   `json:"hobbies"`
	Sports            []string   `json:"sports"`
	TravelExperience  []string   `json:"travel_experience"`
}

// UpdateSurveyRequest is the payload for saving a respondent's survey.
// The checkbox minimums mirror the survey form rules (2+ leisure
// activities, 1+ of each remaining category).
type UpdateSurveyRequest struct {
	Occupation        Occupation `json:"occupation" binding:"required,oneof=BUSINESS_COMPANY HOME_BASED TEACHER_EDUCATOR NO_WORK_EXPERIENCE"`
	IsStudent         YesNo      `json:"is_student" binding:"required,oneof=YES NO"`
	RecentCourse      string     `json:"recent_course" binding:"omitempty,max=100"`
	LivingArrangement string     `json:"living_arrangement" binding:"required,max=100"`
	LeisureActivities []string   `json:"leisure_activities" binding:"required,min=2,dive,min=1,max=80"`
	Hobbies           []string   `json:"hobbies" binding:"required,min=1,dive,min=1,max=80"`
	Sports            []string   `json:"sports" binding:"required,min=1,dive,min=1,max=80"`
	TravelExperience  []string   `json:"travel_experience" binding:"required,min=1,dive,min=1,max=80"`
}

// Profile converts the request into a SurveyProfile owned by respondentID.
func (r *UpdateSurveyRequest) Profile(respondentID int) *SurveyProfile {
	return &SurveyProfile{
		RespondentID:      respondentID,
		Occupation:        r.Occupation,
		IsStudent:         r.IsStudent,
		RecentCourse:      r.RecentCourse,
		LivingArrangement: r.LivingArrangement,
		LeisureActivities: r.LeisureActivities,
		Hobbies:           r.Hobbies,
		Sports:            r.Sports,
		TravelExperience:  r.TravelExperience,
	}
}
