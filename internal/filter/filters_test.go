package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/models"
)

var (
	mw = models.NewDaySet(models.Monday, models.Wednesday)
	tr = models.NewDaySet(models.Tuesday, models.Thursday)
)

func mkPeriod(kind, prof string, days models.DaySet, sh, sm, eh, em, seats int) *models.Period {
	return &models.Period{
		Type:           kind,
		Professor:      prof,
		StartTime:      models.NewTime(sh, sm),
		EndTime:        models.NewTime(eh, em),
		Building:       "Fuller Labs",
		Room:           "FL320",
		Days:           days,
		Seats:          30,
		SeatsAvailable: seats,
	}
}

func mkSection(crn int, number, term string, seats int, periods ...*models.Period) *models.Section {
	return &models.Section{CRN: crn, Number: number, ComputedTerm: term, SeatsAvailable: seats, Periods: periods}
}

func sampleCourses() []*models.Course {
	cs := &models.Department{Abbreviation: "CS", Name: "Computer Science"}
	ma := &models.Department{Abbreviation: "MA", Name: "Mathematical Sciences"}

	intro := &models.Course{ID: "CS-1101", Number: "1101", Name: "Introduction to Program Design", Department: cs,
		MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{
			mkSection(1001, "AL01", "A", 0, mkPeriod("Lecture", "Smith", mw, 9, 0, 9, 50, 0)),
			mkSection(1002, "BL01", "B", 3, mkPeriod("Lecture", "Jones", tr, 9, 0, 9, 50, 3)),
		}}
	systems := &models.Course{ID: "CS-2011", Number: "2011", Name: "Machine Organization", Department: cs,
		MinCredits: 1, MaxCredits: 1,
		Sections: []*models.Section{
			mkSection(2001, "AL01", "A", 0, mkPeriod("Lecture", "Walker", mw, 11, 0, 11, 50, 0)),
			mkSection(2002, "AL02", "A", 0, mkPeriod("Lecture", "Walker", tr, 11, 0, 11, 50, 0)),
		}}
	calculus := &models.Course{ID: "MA-1021", Number: "1021", Name: "Applied Calculus", Department: ma,
		MinCredits: 2, MaxCredits: 3,
		Sections: []*models.Section{
			mkSection(3001, "CL01", "C", 12, mkPeriod("LEC", "Ada Lovelace", mw, 10, 0, 10, 50, 12)),
		}}
	cs.Courses = []*models.Course{intro, systems}
	ma.Courses = []*models.Course{calculus}
	return []*models.Course{intro, systems, calculus}
}

func courseIDs(courses []*models.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	return out
}

func TestSearchText(t *testing.T) {
	courses := sampleCourses()
	f := SearchText{}

	assert.Equal(t, []string{"MA-1021"}, courseIDs(f.Apply(courses, raw(`{"query":"calc"}`), nil)))
	assert.Equal(t, []string{"CS-1101", "CS-2011"}, courseIDs(f.Apply(courses, raw(`{"query":"computer science"}`), nil)))
	assert.Len(t, f.Apply(courses, raw(`{"query":"   "}`), nil), 3)
	assert.Len(t, f.Apply(courses, raw(`{"nope":1}`), nil), 3, "malformed criteria is the identity")
	assert.Equal(t, `"calc"`, f.DisplayValue(raw(`{"query":" calc "}`)))
	assert.False(t, f.IsValidCriteria(raw(`{"query":5}`)))
	assert.False(t, f.IsValidCriteria(raw(`null`)))
}

func TestFuzzyMatchUsesWordPrefixes(t *testing.T) {
	text := "ma-1021 applied calculus"
	assert.True(t, fuzzyMatch(text, "calculuses"), "first 80 percent of the word")
	assert.True(t, fuzzyMatch(text, "applies calcul"))
	assert.False(t, fuzzyMatch(text, "physics"))
	assert.False(t, fuzzyMatch(text, "xyz"))
}

func TestDepartmentAndCreditRange(t *testing.T) {
	courses := sampleCourses()

	assert.Equal(t, []string{"MA-1021"}, courseIDs(Department{}.Apply(courses, raw(`{"departments":["ma"]}`), nil)))
	assert.Len(t, Department{}.Apply(courses, raw(`{"departments":[]}`), nil), 3)
	assert.Equal(t, "Departments: CS, MA", Department{}.DisplayValue(raw(`{"departments":["CS","MA"]}`)))

	credits := CreditRange{}
	assert.Equal(t, []string{"MA-1021"}, courseIDs(credits.Apply(courses, raw(`{"min":3,"max":4}`), nil)))
	assert.Equal(t, "1 credit", credits.DisplayValue(raw(`{"min":1,"max":1}`)))
	assert.Equal(t, "2-3.5 credits", credits.DisplayValue(raw(`{"min":2,"max":3.5}`)))
	assert.False(t, credits.IsValidCriteria(raw(`{"min":-1,"max":3}`)))
	assert.False(t, credits.IsValidCriteria(raw(`{"min":1}`)))
}

func TestProfessorAndTerm(t *testing.T) {
	courses := sampleCourses()

	assert.Equal(t, []string{"CS-2011"}, courseIDs(Professor{}.Apply(courses, raw(`{"professors":["WALKER"]}`), nil)))
	assert.Equal(t, "Professors: a, b, +2 more", Professor{}.DisplayValue(raw(`{"professors":["a","b","c","d"]}`)))
	assert.Equal(t, "Professors: a, b, c", Professor{}.DisplayValue(raw(`{"professors":["a","b","c"]}`)))

	assert.Equal(t, []string{"CS-1101", "MA-1021"}, courseIDs(Term{}.Apply(courses, raw(`{"terms":["b","C"]}`), nil)))
	assert.Equal(t, "Terms: B Term, C Term", Term{}.DisplayValue(raw(`{"terms":["b","C"]}`)))
	assert.Equal(t, []string{"B"}, Term{}.ActiveTerms(raw(`{"terms":[" b "]}`)))
}

func TestLocation(t *testing.T) {
	courses := sampleCourses()
	f := Location{}

	assert.Len(t, f.Apply(courses, raw(`{"buildings":["fuller labs"]}`), nil), 3)
	assert.Empty(t, f.Apply(courses, raw(`{"buildings":["Fuller Labs"],"rooms":["AK116"]}`), nil))
	assert.Equal(t, "Building: Fuller Labs; Rooms: FL320, AK116", f.DisplayValue(raw(`{"buildings":["Fuller Labs"],"rooms":["FL320","AK116"]}`)))
	assert.False(t, f.IsValidCriteria(raw(`{}`)))
	assert.True(t, f.IsValidCriteria(raw(`{"rooms":[]}`)))
}

func TestAvailabilitySimple(t *testing.T) {
	open := &models.Course{ID: "X-1", Sections: []*models.Section{mkSection(1, "A01", "A", 0), mkSection(2, "A02", "A", 3)}}
	full := &models.Course{ID: "X-2", Sections: []*models.Section{mkSection(3, "A01", "A", 0), mkSection(4, "A02", "A", 0)}}
	f := NewAvailability(nil)

	assert.Equal(t, []string{"X-1"}, courseIDs(f.Apply([]*models.Course{open, full}, raw(`{"availableOnly":true}`), nil)))
	assert.Len(t, f.Apply([]*models.Course{open, full}, raw(`{"availableOnly":false}`), nil), 2)
	assert.Equal(t, "Available seats only", f.DisplayValue(raw(`{"availableOnly":true}`)))
}

func TestAvailabilityAdvanced(t *testing.T) {
	detector := conflict.NewDetector(nil)
	f := NewAvailability(detector)

	cs101 := &models.Course{ID: "CS-101", Sections: []*models.Section{
		mkSection(1, "A01", "A", 5, mkPeriod("Lecture", "Smith", mw, 9, 0, 10, 50, 5)),
	}}
	cs102 := &models.Course{ID: "CS-102", Sections: []*models.Section{
		mkSection(2, "A01", "A", 5, mkPeriod("Lecture", "Smith", mw, 10, 0, 11, 50, 5)),
	}}
	cs201 := &models.Course{ID: "CS-201", Sections: []*models.Section{
		mkSection(3, "A01", "A", 0, mkPeriod("Lecture", "Jones", mw, 10, 0, 11, 50, 0)),
		mkSection(4, "B01", "B", 4, mkPeriod("Lecture", "Jones", tr, 10, 0, 11, 50, 4)),
	}}
	selected, err := models.NewSelectedCourse(cs101, true)
	require.NoError(t, err)
	number := "A01"
	require.NoError(t, selected.SelectSection(&number))

	ctx := &Context{SelectedCourses: []*models.SelectedCourse{selected}}
	all := []*models.Course{cs101, cs102, cs201}
	assert.Equal(t, []string{"CS-101", "CS-201"}, courseIDs(f.Apply(all, raw(`{"availableOnly":true}`), ctx)))

	ctx.ActiveTerms = []string{"A"}
	assert.Equal(t, []string{"CS-101"}, courseIDs(f.Apply(all, raw(`{"availableOnly":true}`), ctx)),
		"CS-201 only has open seats in B term")

	ctx.ActiveTerms = nil
	ctx.Others = []Applied[CourseFilter]{{Filter: Professor{}, Criteria: raw(`{"professors":["smith"]}`)}}
	assert.Equal(t, []string{"CS-101"}, courseIDs(f.Apply(all, raw(`{"availableOnly":true}`), ctx)),
		"the open CS-201 section is not taught by Smith")
}

func sectionItems(courses ...*models.SelectedCourse) []models.SectionContext {
	var items []models.SectionContext
	for _, sc := range courses {
		for _, s := range sc.Course.Sections {
			items = append(items, models.SectionContext{Course: sc, Section: s})
		}
	}
	return items
}

func periodItems(courses ...*models.SelectedCourse) []models.PeriodContext {
	var items []models.PeriodContext
	for _, sc := range courses {
		for _, s := range sc.Course.Sections {
			for _, p := range s.Periods {
				items = append(items, models.PeriodContext{Course: sc, Section: s, Period: p})
			}
		}
	}
	return items
}

func sectionNumbers(items []models.SectionContext) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Course.Course.ID+"/"+item.Section.Number)
	}
	return out
}

func labCourse() *models.SelectedCourse {
	course := &models.Course{ID: "CH-1010", Number: "1010", Name: "Chemistry", Sections: []*models.Section{
		mkSection(10, "AL01", "A", 5,
			mkPeriod("Lecture", "Curie", mw, 9, 0, 9, 50, 5),
			mkPeriod("Lab", "Curie", models.NewDaySet(models.Friday), 13, 0, 15, 50, 0)),
		mkSection(11, "AL02", "A", 5,
			mkPeriod("Lecture", "Pauling", tr, 14, 0, 14, 50, 5)),
	}}
	sc, _ := models.NewSelectedCourse(course, false)
	return sc
}

func TestPeriodDaysExcludesWholeSections(t *testing.T) {
	sc := labCourse()
	f := PeriodDays{}
	criteria := raw(`{"days":["fri"]}`)

	assert.Equal(t, []string{"CH-1010/AL02"}, sectionNumbers(f.ApplySections(sectionItems(sc), criteria, nil)))
	assert.Len(t, f.ApplyPeriods(periodItems(sc), criteria, nil), 2)
	assert.Equal(t, "Exclude: Monday, Friday", f.DisplayValue(raw(`{"days":["mon","fri"]}`)))
	assert.Equal(t, "No exclusions", f.DisplayValue(raw(`{"days":[]}`)))
}

func TestPeriodTypeKeepsSectionsWithSurvivingPeriod(t *testing.T) {
	sc := labCourse()
	f := PeriodType{}

	assert.Len(t, f.ApplySections(sectionItems(sc), raw(`{"types":["lab"]}`), nil), 2)
	assert.Len(t, f.ApplyPeriods(periodItems(sc), raw(`{"types":["lab"]}`), nil), 2)
	assert.Empty(t, f.ApplySections(sectionItems(sc), raw(`{"types":["LEC","lab"]}`), nil))
	assert.Equal(t, "Exclude: Lecture, Lab", f.DisplayValue(raw(`{"types":["lec","Lab"]}`)))
	assert.Equal(t, "discussion", NormalizePeriodType("DIS"))
	assert.Equal(t, "Workshop", FormatPeriodType("WORKSHOP"))
}

func TestPeriodProfessorAndLocationMatchPartially(t *testing.T) {
	sc := labCourse()

	assert.Equal(t, []string{"CH-1010/AL02"}, sectionNumbers(PeriodProfessor{}.ApplySections(sectionItems(sc), raw(`{"professors":["paul"]}`), nil)))
	assert.Equal(t, "2 Professors", PeriodProfessor{}.DisplayValue(raw(`{"professors":["a","b"]}`)))

	assert.Len(t, PeriodLocation{}.ApplyPeriods(periodItems(sc), raw(`{"buildings":["fuller"],"rooms":["320"]}`), nil), 3)
	assert.Empty(t, PeriodLocation{}.ApplyPeriods(periodItems(sc), raw(`{"rooms":["AK"]}`), nil))
	assert.Equal(t, "Building: Fuller, 2 Rooms", PeriodLocation{}.DisplayValue(raw(`{"buildings":["Fuller"],"rooms":["1","2"]}`)))
	assert.Equal(t, "Any Location", PeriodLocation{}.DisplayValue(raw(`{}`)))
}

func TestPeriodAvailabilityAndTime(t *testing.T) {
	sc := labCourse()

	assert.Len(t, PeriodAvailability{}.ApplyPeriods(periodItems(sc), raw(`{"availableOnly":true}`), nil), 2)
	assert.Empty(t, PeriodAvailability{}.ApplyPeriods(periodItems(sc), raw(`{"minAvailable":6}`), nil))
	assert.Equal(t, "Available Only, Min 2 Seats", PeriodAvailability{}.DisplayValue(raw(`{"availableOnly":true,"minAvailable":2}`)))
	assert.False(t, PeriodAvailability{}.IsValidCriteria(raw(`{"minAvailable":-1}`)))

	afternoon := raw(`{"startTime":{"hours":12,"minutes":0}}`)
	assert.Equal(t, []string{"CH-1010/AL01", "CH-1010/AL02"}, sectionNumbers(PeriodTime{}.ApplySections(sectionItems(sc), afternoon, nil)))
	assert.Len(t, PeriodTime{}.ApplyPeriods(periodItems(sc), afternoon, nil), 2)
	assert.Equal(t, "After 12:00 PM, Before 3:30 PM", PeriodTime{}.DisplayValue(raw(`{"startTime":{"hours":12,"minutes":0},"endTime":{"hours":15,"minutes":30}}`)))
	assert.False(t, PeriodTime{}.IsValidCriteria(raw(`{"startTime":{"hours":24,"minutes":0}}`)))
	assert.Equal(t, "Any Time", PeriodTime{}.DisplayValue(raw(`{}`)))
}

func TestSelectionScopedFilters(t *testing.T) {
	chem := labCourse()
	number := "AL02"
	require.NoError(t, chem.SelectSection(&number))
	math, _ := models.NewSelectedCourse(sampleCourses()[2], true)
	items := sectionItems(chem, math)

	assert.Equal(t, []string{"MA-1021/CL01"}, sectionNumbers(CourseSelection{}.ApplySections(items, raw(`{"selectedCourseIds":["MA-1021"]}`), nil)))
	assert.Len(t, CourseSelection{}.ApplySections(items, raw(`{"selectedCourseIds":[]}`), nil), 3)
	assert.Equal(t, "2 Courses Selected", CourseSelection{}.DisplayValue(raw(`{"selectedCourseIds":["a","b"]}`)))

	assert.Equal(t, []string{"CH-1010/AL01", "CH-1010/AL02"}, sectionNumbers(SectionStatus{}.ApplySections(items, raw(`{"status":"selected"}`), nil)))
	assert.Equal(t, []string{"MA-1021/CL01"}, sectionNumbers(RequiredStatus{}.ApplySections(items, raw(`{"status":"required"}`), nil)))
	assert.False(t, RequiredStatus{}.IsValidCriteria(raw(`{"status":"maybe"}`)))

	assert.Equal(t, []string{"CH-1010/AL02"}, sectionNumbers(SectionCode{}.ApplySections(items, raw(`{"codes":["l02"]}`), nil)))
	assert.Equal(t, []string{"MA-1021/CL01"}, sectionNumbers(PeriodTerm{}.ApplySections(items, raw(`{"terms":["c"]}`), nil)))
	assert.Equal(t, "Term: C Term", PeriodTerm{}.DisplayValue(raw(`{"terms":["c"]}`)))

	assert.Equal(t, []string{"MA-1021/CL01"}, sectionNumbers(SectionSearch{}.ApplySections(items, raw(`{"query":"lovelace"}`), nil)))
}

func TestPeriodConflictIgnoresOwnCourse(t *testing.T) {
	detector := conflict.NewDetector(nil)
	f := NewPeriodConflict(detector)

	chem := labCourse()
	number := "AL01"
	require.NoError(t, chem.SelectSection(&number))

	clash := &models.Course{ID: "PH-1110", Sections: []*models.Section{
		mkSection(20, "AL01", "A", 5, mkPeriod("Lecture", "Newton", mw, 9, 30, 10, 20, 5)),
		mkSection(21, "AL02", "A", 5, mkPeriod("Lecture", "Newton", tr, 9, 30, 10, 20, 5)),
	}}
	physics, _ := models.NewSelectedCourse(clash, false)
	ctx := &Context{SelectedCourses: []*models.SelectedCourse{chem, physics}}
	criteria := raw(`{"avoidConflicts":true}`)

	got := sectionNumbers(f.ApplySections(sectionItems(chem, physics), criteria, ctx))
	assert.Equal(t, []string{"CH-1010/AL01", "CH-1010/AL02", "PH-1110/AL02"}, got)
	assert.Len(t, f.ApplyPeriods(periodItems(chem, physics), criteria, ctx), 4)

	assert.Len(t, f.ApplySections(sectionItems(chem, physics), raw(`{"avoidConflicts":false}`), ctx), 4)
	assert.Len(t, f.ApplySections(sectionItems(chem, physics), criteria, nil), 4)
	assert.Equal(t, "Avoiding conflicts", f.DisplayValue(criteria))
}
