package domain

import "time"

type Category string

const (
	CategoryCreativity Category = "Creativity"
	CategoryActivity   Category = "Activity"
	CategoryService    Category = "Service"
)

var Categories = []Category{CategoryCreativity, CategoryActivity, CategoryService}

const (
	LocationInSchool = "In the school"
	LocationOutside  = "Outside"
)

const (
	ProgressForApproval = "For approval"
	ProgressInProgress  = "In progress"
)

// LearningOutcomes are the seven CAS learning outcomes.
var LearningOutcomes = []string{"LO1", "LO2", "LO3", "LO4", "LO5", "LO6", "LO7"}

// UNGoals are the seventeen UN sustainable development goals.
var UNGoals = []string{
	"No Poverty",
	"Zero Hunger",
	"Good Health and Well-being",
	"Quality Education",
	"Gender Equality",
	"Clean Water and Sanitation",
	"Affordable and Clean Energy",
	"Decent Work and Economic Growth",
	"Industry, Innovation and Infrastructure",
	"Reduced Inequalities",
	"Sustainable Cities and Communities",
	"Responsible Consumption and Production",
	"Climate Action",
	"Life Below Water",
	"Life on Land",
	"Peace, Justice and Strong Institutions",
	"Partnerships for the Goals",
}

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewDenied   ReviewStatus = "denied"
)

// ParseReviewStatus accepts pending, approved or denied.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	switch ReviewStatus(s) {
	case ReviewPending, ReviewApproved, ReviewDenied:
		return ReviewStatus(s), true
	}
	return "", false
}

// ProjectDetails are the student-authored fields of a submission. A
// resubmission replaces all of them.
type ProjectDetails struct {
	Title            string
	Description      string
	Categories       []Category
	Location         string
	StartDate        time.Time
	EndDate          time.Time
	LearningOutcomes []string
	UNGoals          []string
	Investigation    string
	LearnerProfile   string
	SupervisorName   string
	Progress         string
}

type Submission struct {
	ID        string
	StudentID string
	SectionID string
	ProjectDetails

	ReviewStatus   ReviewStatus
	ReviewComments string
	ReviewedBy     *string
	ReviewedAt     *time.Time

	Evidence  []Evidence
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Evidence struct {
	ID           string
	SubmissionID string
	ObjectKey    string
	OriginalName string
	MimeType     string
	Size         int64
	CreatedAt    time.Time
}

// SubmissionStats counts one student's submissions.
type SubmissionStats struct {
	Total      int
	ByCategory map[Category]int
	ByStatus   map[ReviewStatus]int
}
