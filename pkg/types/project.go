package types

// Project is a top-level tracked unit. List responses omit milestone detail;
// detail responses nest each milestone with its criteria.
type Project struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

// Key returns the server-assigned identifier.
func (p Project) Key() int { return p.ID }

// HasMilestone reports whether the milestone with the given id is attached.
func (p Project) HasMilestone(milestoneID int) bool {
	for _, m := range p.Milestones {
		if m.ID == milestoneID {
			return true
		}
	}
	return false
}

// Milestone is a reusable checkpoint definition. One milestone may be
// attached to several projects at once.
type Milestone struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     string      `json:"dueDate,omitempty"`
	Criteria    []Criterion `json:"criteria,omitempty"`
}

// Key returns the server-assigned identifier.
func (m Milestone) Key() int { return m.ID }

// Criterion is a single pass/fail requirement owned by one milestone.
type Criterion struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	MilestoneID int    `json:"milestone_id"`
}

// Key returns the server-assigned identifier.
func (c Criterion) Key() int { return c.ID }

// Admin is the record returned by a successful login.
type Admin struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Entity is implemented by every persisted type the client caches.
type Entity interface {
	Key() int
}
