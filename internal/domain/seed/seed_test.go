package seed_test

import (
	"testing"

	"github.com/ecosort/ecosort/internal/domain/model"
	"github.com/ecosort/ecosort/internal/domain/seed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeedContent(t *testing.T) {
	Convey("Given the seed content", t, func() {
		Convey("Then there is one valid question per category", func() {
			questions := seed.QuizQuestions()
			So(questions, ShouldHaveLength, 4)
			seen := map[string]bool{}
			for _, q := range questions {
				So(q.Validate(), ShouldBeNil)
				So(q.Options, ShouldHaveLength, 4)
				seen[q.Category] = true
			}
			So(seen, ShouldHaveLength, len(model.Categories))
		})

		Convey("Then there is one valid rule per category", func() {
			rules := seed.RecyclingRules()
			So(rules, ShouldHaveLength, 4)
			for i, r := range rules {
				So(r.Validate(), ShouldBeNil)
				So(r.Category, ShouldEqual, model.Categories[i])
				So(r.WhatStaysOut, ShouldNotBeEmpty)
				So(r.Tips, ShouldNotBeEmpty)
			}
		})

		Convey("Then no centers are seeded", func() {
			So(seed.RecyclingCenters(), ShouldBeEmpty)
		})

		Convey("Then the catalogue covers every category", func() {
			So(seed.Categories(), ShouldHaveLength, len(model.Categories))
			for i, c := range seed.Categories() {
				So(c.ID, ShouldEqual, model.Categories[i])
				So(c.Name, ShouldNotBeEmpty)
			}
		})
	})
}
