package types_test

import (
	"encoding/json"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
	types "github.com/okian/unirank/internal/domain/types"
)

func TestNum(t *testing.T) {
	Convey("Given numbers that may be missing", t, func() {
		So(types.Num(math.NaN()), ShouldBeNil)
		So(types.Num(math.Inf(1)), ShouldBeNil)
		So(types.Num(math.Inf(-1)), ShouldBeNil)
		So(*types.Num(0), ShouldEqual, 0)
		So(*types.Num(42.5), ShouldEqual, 42.5)
	})
}

func TestRecordEncoding(t *testing.T) {
	Convey("Given a record with missing values", t, func() {
		rec := model.UniversityRecord{
			WorldRank:      math.NaN(),
			UniversityName: "University of Toronto",
			Country:        "Canada",
			Teaching:       75.9,
			International:  59.8,
			Research:       82.4,
			Citations:      85.9,
			Income:         math.NaN(),
			TotalScore:     73.5,
			NumStudents:    66198,
			Year:           2011,
		}

		Convey("When encoding it to JSON", func() {
			data, err := json.Marshal(types.FromRecord(rec))
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)

			Convey("Then missing values become null and others are kept", func() {
				So(decoded["world_rank"], ShouldBeNil)
				So(decoded["income"], ShouldBeNil)
				So(decoded["teaching"], ShouldEqual, 75.9)
				So(decoded["num_students"], ShouldEqual, 66198.0)
				So(decoded["university_name"], ShouldEqual, "University of Toronto")
				So(decoded["year"], ShouldEqual, 2011.0)
			})
		})

		Convey("When encoding an empty view", func() {
			data, err := json.Marshal(types.FromRecords(nil))

			Convey("Then it is an empty array rather than null", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "[]")
			})
		})
	})
}

func TestFromGenderShares(t *testing.T) {
	Convey("Given gender shares", t, func() {
		out := types.FromGenderShares([]aggregate.GenderShare{
			{UniversityName: "A", Female: 0.33, OK: true},
			{UniversityName: "B", Female: 0.466, OK: true},
			{UniversityName: "C", OK: false},
		})

		Convey("Then readable ratios get a rounded percent label", func() {
			So(out[0].Label, ShouldEqual, "33%")
			So(*out[0].Female, ShouldEqual, 0.33)
			So(out[1].Label, ShouldEqual, "47%")
		})

		Convey("And unreadable ratios are N/A with a null share", func() {
			So(out[2].Label, ShouldEqual, "N/A")
			So(out[2].Female, ShouldBeNil)
		})
	})
}

func TestConversions(t *testing.T) {
	Convey("Given model values", t, func() {
		sel := model.Selection{Country: "Canada", Year: 2016, SortMetric: model.MetricIncome}
		So(types.FromSelection(sel), ShouldResemble, types.Selection{Country: "Canada", Year: 2016, Metric: "income"})

		avgs := types.FromYearAverages([]model.YearAverage{{Year: 2011, MeanTotalScore: 85}})
		So(avgs, ShouldResemble, []types.YearAverage{{Year: 2011, MeanTotalScore: 85}})

		So(types.NewDomain(1, 5, false), ShouldResemble, types.Domain{})
		d := types.NewDomain(1, 5, true)
		So(*d.Min, ShouldEqual, 1)
		So(*d.Max, ShouldEqual, 5)
	})
}
