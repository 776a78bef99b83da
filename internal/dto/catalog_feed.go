package dto

// CatalogFeed is the wire shape of the published course data file.
type CatalogFeed struct {
	Departments []FeedDepartment `json:"departments"`
	Generated   string           `json:"generated"`
}

// FeedDepartment groups courses under a department abbreviation.
type FeedDepartment struct {
	Abbreviation string       `json:"abbreviation"`
	Name         string       `json:"name"`
	Courses      []FeedCourse `json:"courses"`
}

// FeedCourse is one catalog entry. Descriptions may carry HTML markup.
type FeedCourse struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	MinCredits  float64       `json:"min_credits"`
	MaxCredits  float64       `json:"max_credits"`
	Sections    []FeedSection `json:"sections"`
}

// FeedSection is one offering of a course.
type FeedSection struct {
	CRN            int          `json:"crn"`
	Number         string       `json:"number"`
	Seats          int          `json:"seats"`
	SeatsAvailable int          `json:"seats_available"`
	ActualWaitlist int          `json:"actual_waitlist"`
	MaxWaitlist    int          `json:"max_waitlist"`
	Note           string       `json:"note"`
	Description    string       `json:"description"`
	Term           string       `json:"term"`
	ComputedTerm   string       `json:"computedTerm"`
	Periods        []FeedPeriod `json:"periods"`
}

// FeedPeriod is a meeting block. Times are 24 hour "HH:MM" strings or "TBA".
type FeedPeriod struct {
	Type            string   `json:"type"`
	Professor       string   `json:"professor"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Location        string   `json:"location"`
	Building        string   `json:"building"`
	Room            string   `json:"room"`
	Seats           int      `json:"seats"`
	SeatsAvailable  int      `json:"seats_available"`
	ActualWaitlist  int      `json:"actual_waitlist"`
	MaxWaitlist     int      `json:"max_waitlist"`
	Days            []string `json:"days"`
	SpecificSection string   `json:"specific_section"`
}
