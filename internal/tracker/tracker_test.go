package tracker

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"expense-cli/internal/logging"
	"expense-cli/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

// TrackerTestSuite exercises a Tracker backed by a temporary file.
type TrackerTestSuite struct {
	suite.Suite
	path    string
	tracker *Tracker
}

// SetupTest runs before each test
func (suite *TrackerTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "expenses.json")
	suite.tracker = suite.open()
}

func (suite *TrackerTestSuite) open() *Tracker {
	return New(suite.path, WithClock(func() time.Time { return fixedNow }))
}

func (suite *TrackerTestSuite) readFile() []byte {
	data, err := os.ReadFile(suite.path)
	require.NoError(suite.T(), err)
	return data
}

func (suite *TrackerTestSuite) writeFile(content string) {
	require.NoError(suite.T(), os.WriteFile(suite.path, []byte(content), 0o644))
}

func (suite *TrackerTestSuite) TestAddAssignsIncreasingIDs() {
	var last int64
	for i := range 5 {
		e, err := suite.tracker.Add("t", "d", float64(i+1))
		require.NoError(suite.T(), err)
		assert.Greater(suite.T(), e.ID, last)
		last = e.ID
	}
	assert.Equal(suite.T(), int64(5), last)
}

func (suite *TrackerTestSuite) TestAddSetsCurrentDateAndPersists() {
	e, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "14-10-2026", e.Date)

	reloaded := suite.open()
	assert.Equal(suite.T(), []models.Expense{e}, reloaded.List())
}

func (suite *TrackerTestSuite) TestAddRejectsNonPositiveAmount() {
	_, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	before := suite.readFile()

	for _, amount := range []float64{0, -1, -0.01} {
		_, err := suite.tracker.Add("Bad", "bad", amount)
		assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
	}

	assert.Len(suite.T(), suite.tracker.List(), 1)
	assert.Equal(suite.T(), before, suite.readFile(), "file must be unchanged")
}

func (suite *TrackerTestSuite) TestNonFiniteAmountsRejected() {
	e, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	before := suite.readFile()

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := suite.tracker.Add("Bad", "bad", amount)
		assert.ErrorIs(suite.T(), err, ErrInvalidAmount)

		title := "Changed"
		ok, err := suite.tracker.Update(e.ID, UpdateFields{Title: &title, Amount: &amount})
		assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
		assert.False(suite.T(), ok)
	}
	assert.Equal(suite.T(), []models.Expense{e}, suite.tracker.List())
	assert.Equal(suite.T(), before, suite.readFile())

	// Later mutations still save.
	_, err = suite.tracker.Add("Pen", "office", 2)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.open().List(), 2)
}

func (suite *TrackerTestSuite) TestAddSaveFailureLeavesCollectionUnchanged() {
	tr := New(filepath.Join(suite.T().TempDir(), "missing", "expenses.json"))
	_, err := tr.Add("Coffee", "morning", 3.5)
	require.Error(suite.T(), err)
	assert.Empty(suite.T(), tr.List())
	assert.Equal(suite.T(), int64(1), tr.NextID())
}

func (suite *TrackerTestSuite) TestAddDoesNotSaveOnInvalidAmount() {
	_, err := suite.tracker.Add("Bad", "bad", 0)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
	assert.NoFileExists(suite.T(), suite.path)
}

func (suite *TrackerTestSuite) TestNextIDNeverReusesDeletedID() {
	assert.Equal(suite.T(), int64(1), suite.tracker.NextID())

	for range 3 {
		_, err := suite.tracker.Add("t", "d", 1)
		require.NoError(suite.T(), err)
	}
	ok, err := suite.tracker.Delete(2)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	e, err := suite.tracker.Add("t", "d", 1)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), e.ID)
}

func (suite *TrackerTestSuite) TestDeleteUnknownID() {
	_, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	before := suite.readFile()

	ok, err := suite.tracker.Delete(42)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
	assert.Len(suite.T(), suite.tracker.List(), 1)
	assert.Equal(suite.T(), before, suite.readFile())
}

func (suite *TrackerTestSuite) TestDeletePreservesOrder() {
	for _, title := range []string{"a", "b", "c"} {
		_, err := suite.tracker.Add(title, "", 1)
		require.NoError(suite.T(), err)
	}

	ok, err := suite.tracker.Delete(2)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	list := suite.open().List()
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), "a", list[0].Title)
	assert.Equal(suite.T(), "c", list[1].Title)
}

func (suite *TrackerTestSuite) TestUpdateChangesOnlySuppliedFields() {
	e, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)

	title := "Espresso"
	ok, err := suite.tracker.Update(e.ID, UpdateFields{Title: &title})
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	got := suite.open().List()[0]
	assert.Equal(suite.T(), "Espresso", got.Title)
	assert.Equal(suite.T(), "morning", got.Description)
	assert.Equal(suite.T(), 3.5, got.Amount)
	assert.Equal(suite.T(), e.ID, got.ID)
	assert.Equal(suite.T(), e.Date, got.Date)

	desc, amount := "afternoon", 4.25
	ok, err = suite.tracker.Update(e.ID, UpdateFields{Description: &desc, Amount: &amount})
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	got = suite.open().List()[0]
	assert.Equal(suite.T(), "Espresso", got.Title)
	assert.Equal(suite.T(), "afternoon", got.Description)
	assert.Equal(suite.T(), 4.25, got.Amount)
}

func (suite *TrackerTestSuite) TestUpdateInvalidAmountLeavesRecordUntouched() {
	e, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	before := suite.readFile()

	title, amount := "Changed", -5.0
	ok, err := suite.tracker.Update(e.ID, UpdateFields{Title: &title, Amount: &amount})
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
	assert.False(suite.T(), ok)

	assert.Equal(suite.T(), e, suite.tracker.List()[0], "in-memory record must not change")
	assert.Equal(suite.T(), before, suite.readFile(), "file must not change")
}

func (suite *TrackerTestSuite) TestUpdateUnknownID() {
	title := "x"
	ok, err := suite.tracker.Update(9, UpdateFields{Title: &title})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
	assert.NoFileExists(suite.T(), suite.path)
}

func (suite *TrackerTestSuite) TestListReturnsCopy() {
	_, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)

	list := suite.tracker.List()
	list[0].Title = "mutated"
	assert.Equal(suite.T(), "Coffee", suite.tracker.List()[0].Title)
}

func (suite *TrackerTestSuite) TestTotalWithoutMonthSumsEverything() {
	suite.writeFile(`[
  {"id": 1, "title": "a", "description": "", "amount": 3.5, "date": "01-01-2019"},
  {"id": 2, "title": "b", "description": "", "amount": 12, "date": "14-10-2026"},
  {"id": 3, "title": "c", "description": "", "amount": 0.1, "date": "02-10-2026"},
  {"id": 4, "title": "d", "description": "", "amount": 0.2, "date": "03-03-2026"}
]`)
	tr := suite.open()

	total, err := tr.Total(0)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 15.8, total)
}

func (suite *TrackerTestSuite) TestTotalByMonthUsesCurrentYear() {
	suite.writeFile(`[
  {"id": 1, "title": "a", "description": "", "amount": 3.5, "date": "01-10-2019"},
  {"id": 2, "title": "b", "description": "", "amount": 12, "date": "14-10-2026"},
  {"id": 3, "title": "c", "description": "", "amount": 0.1, "date": "02-10-2026"},
  {"id": 4, "title": "d", "description": "", "amount": 0.2, "date": "03-03-2026"}
]`)
	tr := suite.open()

	total, err := tr.Total(10)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12.1, total)

	total, err = tr.Total(3)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.2, total)

	total, err = tr.Total(7)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)
}

func (suite *TrackerTestSuite) TestTotalInvalidStoredDate() {
	suite.writeFile(`[{"id": 1, "title": "a", "description": "", "amount": 3.5, "date": "2026-10-14"}]`)
	tr := suite.open()
	require.Len(suite.T(), tr.List(), 1)

	_, err := tr.Total(0)
	assert.ErrorIs(suite.T(), err, ErrInvalidDate)
}

func (suite *TrackerTestSuite) TestLoadMissingFile() {
	assert.Empty(suite.T(), suite.tracker.List())
}

func (suite *TrackerTestSuite) TestLoadMalformedFileStartsEmpty() {
	cases := map[string]string{
		"invalid syntax":   `[{"id": 1,`,
		"not an array":     `{"id": 1}`,
		"missing field":    `[{"id": 1, "title": "a", "description": "", "amount": 1}]`,
		"wrong field type": `[{"id": "1", "title": "a", "description": "", "amount": 1, "date": "01-01-2026"}]`,
		"partial valid": `[
			{"id": 1, "title": "a", "description": "", "amount": 1, "date": "01-01-2026"},
			{"id": 2, "title": "b"}
		]`,
	}
	for name, content := range cases {
		suite.Run(name, func() {
			suite.writeFile(content)
			assert.Empty(suite.T(), suite.open().List())
		})
	}
}

func (suite *TrackerTestSuite) TestLoadMalformedIsLogged() {
	suite.writeFile(`not json`)
	buf := new(bytes.Buffer)
	tr := New(suite.path, WithLogger(logging.New(buf, "warn")))

	assert.Empty(suite.T(), tr.List())
	assert.Contains(suite.T(), buf.String(), "malformed data file")
}

func (suite *TrackerTestSuite) TestSaveRoundTrip() {
	for _, e := range []struct {
		title, desc string
		amount      float64
	}{
		{"Coffee", "morning", 3.5},
		{"Book", "novel \"quoted\"", 12},
		{"Pen", "", 1.25},
	} {
		_, err := suite.tracker.Add(e.title, e.desc, e.amount)
		require.NoError(suite.T(), err)
	}

	assert.Equal(suite.T(), suite.tracker.List(), suite.open().List())
}

func (suite *TrackerTestSuite) TestSaveWritesIndentedJSON() {
	_, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)

	data := suite.readFile()
	assert.Contains(suite.T(), string(data), "\n  {\n    \"amount\": 3.5,")

	var decoded []map[string]any
	require.NoError(suite.T(), json.Unmarshal(data, &decoded))
	require.Len(suite.T(), decoded, 1)
	assert.Equal(suite.T(), "14-10-2026", decoded[0]["date"])
}

func (suite *TrackerTestSuite) TestSaveEmptyCollection() {
	e, err := suite.tracker.Add("Coffee", "morning", 3.5)
	require.NoError(suite.T(), err)
	_, err = suite.tracker.Delete(e.ID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "[]", string(suite.readFile()))
}

func (suite *TrackerTestSuite) TestSaveFailureIsReturned() {
	tr := New(filepath.Join(suite.T().TempDir(), "missing", "expenses.json"))
	_, err := tr.Add("Coffee", "morning", 3.5)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *TrackerTestSuite) TestScenario() {
	coffee, err := suite.tracker.Add("Coffee", "morning", 3.50)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), coffee.ID)

	book, err := suite.tracker.Add("Book", "novel", 12.00)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), book.ID)

	ok, err := suite.tracker.Delete(1)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	pen, err := suite.tracker.Add("Pen", "office", 1.50)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), pen.ID)

	list := suite.open().List()
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), int64(2), list[0].ID)
	assert.Equal(suite.T(), int64(3), list[1].ID)

	total, err := suite.tracker.Total(0)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 13.5, total)
}

func TestNew_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tr := New("")
	assert.Equal(t, DefaultDataFile, tr.Path())
}

// Test suite runner
func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}
