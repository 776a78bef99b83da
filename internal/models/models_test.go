package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tm, err := ParseClock("13:05")
	require.NoError(t, err)
	assert.Equal(t, 13, tm.Hours)
	assert.Equal(t, 5, tm.Minutes)
	assert.Equal(t, "1:05 PM", tm.DisplayTime)
	assert.Equal(t, 785, tm.MinuteOfDay())

	tba, err := ParseClock("TBA")
	require.NoError(t, err)
	assert.Equal(t, 0, tba.MinuteOfDay())
	assert.Equal(t, "TBD", tba.DisplayTime)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("nine")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "12:00 AM", FormatClock(0, 0))
	assert.Equal(t, "12:30 PM", FormatClock(12, 30))
	assert.Equal(t, "9:50 AM", FormatClock(9, 50))
}

func TestTimeComparisonIgnoresDisplay(t *testing.T) {
	a := Time{Hours: 9, Minutes: 0, DisplayTime: "whatever"}
	b := NewTime(9, 0)
	assert.True(t, a.Equal(b))
	assert.True(t, NewTime(8, 59).Before(b))
	assert.True(t, NewTime(10, 0).After(b))
}

func TestDaySetOperations(t *testing.T) {
	mwf := NewDaySet(Monday, Wednesday, Friday, Monday)
	assert.Equal(t, 3, mwf.Len())
	assert.True(t, mwf.Has(Wednesday))
	assert.False(t, mwf.Has(Tuesday))

	tr := NewDaySet(Tuesday, Thursday)
	assert.True(t, mwf.Intersect(tr).IsEmpty())
	assert.Equal(t, []DayOfWeek{Monday}, mwf.Intersect(NewDaySet(Monday, Tuesday)).Days())
	assert.Equal(t, "mon, wed, fri", mwf.String())
}

func TestDaySetJSON(t *testing.T) {
	var set DaySet
	require.NoError(t, json.Unmarshal([]byte(`["wed","MON","monday"]`), &set))
	assert.Equal(t, NewDaySet(Monday, Wednesday), set)

	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["mon","wed"]`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`["xyz"]`), &set))
}

func TestParseDay(t *testing.T) {
	day, ok := ParseDay("Thursday")
	assert.True(t, ok)
	assert.Equal(t, Thursday, day)
	_, ok = ParseDay("x")
	assert.False(t, ok)
	assert.Equal(t, "Sunday", Sunday.FullName())
}

func TestSelectedCourseSelectSection(t *testing.T) {
	a01 := &Section{CRN: 1, Number: "A01"}
	a02 := &Section{CRN: 2, Number: "A02"}
	course := &Course{ID: "CS-1101", Sections: []*Section{a01, a02}}

	sc, err := NewSelectedCourse(course, true)
	require.NoError(t, err)
	assert.False(t, sc.HasSection())

	number := "A02"
	require.NoError(t, sc.SelectSection(&number))
	assert.Same(t, a02, sc.SelectedSection)
	assert.Equal(t, "A02", sc.SectionNumber())

	missing := "Z99"
	err = sc.SelectSection(&missing)
	require.Error(t, err)
	assert.Same(t, a02, sc.SelectedSection)

	require.NoError(t, sc.SelectSection(nil))
	assert.Nil(t, sc.SelectedSection)
	assert.Nil(t, sc.SelectedSectionNumber)

	_, err = NewSelectedCourse(nil, false)
	assert.Error(t, err)
}

func TestSectionRepairTerm(t *testing.T) {
	legacy := &Section{Number: "BL01", Term: "202201", ComputedTerm: "undefined"}
	assert.True(t, legacy.RepairTerm())
	assert.Equal(t, "B", legacy.ComputedTerm)

	ok := &Section{Number: "BL01", ComputedTerm: "C"}
	assert.False(t, ok.RepairTerm())
	assert.Equal(t, "C", ok.ComputedTerm)
}

func TestCatalogIndexAndCourseJSON(t *testing.T) {
	dept := &Department{Abbreviation: "CS", Name: "Computer Science"}
	course := &Course{ID: "CS-1101", Number: "1101", Name: "Intro", Department: dept}
	dept.Courses = []*Course{course}

	catalog := NewCatalog([]*Department{dept})
	found, ok := catalog.Course("CS-1101")
	require.True(t, ok)
	assert.Same(t, course, found)
	assert.Equal(t, "CS1101", found.Label())

	raw, err := json.Marshal(course)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"departmentAbbreviation":"CS"`)
}
