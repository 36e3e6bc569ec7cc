package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ecosort/ecosort/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestLevelForScore(t *testing.T) {
	convey.Convey("Given the level rule", t, func() {
		cases := map[int]int{0: 1, 1: 1, 999: 1, 1000: 2, 1999: 2, 2500: 3, 10_000: 11, -5: 1}
		for score, level := range cases {
			convey.So(model.LevelForScore(score), convey.ShouldEqual, level)
		}
	})
}

func TestNewQuizQuestion(t *testing.T) {
	convey.Convey("Given an insertable question", t, func() {
		n := model.NewQuizQuestion{
			Question:      "Where do jars go?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: intPtr(2),
			Category:      model.CategoryGlass,
		}

		convey.Convey("When it is complete", func() {
			convey.So(n.Validate(), convey.ShouldBeNil)

			q := n.Build("q1")
			convey.Convey("Then defaults are filled on build", func() {
				convey.So(q.ID, convey.ShouldEqual, "q1")
				convey.So(q.Difficulty, convey.ShouldEqual, model.DifficultyEasy)
				convey.So(q.ImageURL, convey.ShouldBeNil)
				convey.So(q.CorrectAnswer, convey.ShouldEqual, 2)
			})

			convey.Convey("And the stored options do not alias the input", func() {
				n.Options[0] = "changed"
				convey.So(q.Options[0], convey.ShouldEqual, "a")
			})
		})

		convey.Convey("When the correct answer is outside the options", func() {
			n.CorrectAnswer = intPtr(4)
			err := n.Validate()
			convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
		})

		convey.Convey("When the correct answer is missing", func() {
			n.CorrectAnswer = nil
			err := n.Validate()
			convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "correctAnswer is required")
		})

		convey.Convey("When there are three options", func() {
			n.Options = []string{"a", "b", "c"}
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the category is unknown", func() {
			n.Category = "metal"
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the difficulty is unknown", func() {
			n.Difficulty = "extreme"
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestQuizQuestionPatch(t *testing.T) {
	convey.Convey("Given a stored question", t, func() {
		q := model.QuizQuestion{
			ID:            "q1",
			Question:      "old",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Category:      model.CategoryPlastic,
			Difficulty:    model.DifficultyEasy,
		}

		convey.Convey("When a patch sets only the question", func() {
			out := model.QuizQuestionPatch{Question: strPtr("new")}.Apply(q)

			convey.Convey("Then the other fields are kept", func() {
				convey.So(out.Question, convey.ShouldEqual, "new")
				convey.So(out.ID, convey.ShouldEqual, "q1")
				convey.So(out.Options, convey.ShouldResemble, q.Options)
				convey.So(out.CorrectAnswer, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a patch moves the answer past the options", func() {
			out := model.QuizQuestionPatch{CorrectAnswer: intPtr(7)}.Apply(q)
			convey.So(errors.Is(out.Check(), model.ErrValidation), convey.ShouldBeTrue)
		})

		convey.Convey("When a patch carries a bad category", func() {
			err := model.QuizQuestionPatch{Category: strPtr("paper")}.Validate()
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a patch clears the image", func() {
			q.ImageURL = strPtr("http://img")
			out := model.QuizQuestionPatch{ImageURL: strPtr("")}.Apply(q)
			convey.So(out.ImageURL, convey.ShouldBeNil)
		})
	})
}

func TestNewRecyclingRule(t *testing.T) {
	convey.Convey("Given an insertable rule", t, func() {
		n := model.NewRecyclingRule{
			Category:     model.CategoryOrganic,
			Title:        "Compost",
			Description:  "Compost it",
			Instructions: []string{"Separate"},
			WhatGoesIn:   []string{"Peels"},
		}

		convey.Convey("When the title is missing", func() {
			n.Title = ""
			err := n.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "title")
		})

		convey.Convey("When optional lists are absent", func() {
			convey.So(n.Validate(), convey.ShouldBeNil)
			r := n.Build("r1")
			convey.So(r.WhatStaysOut, convey.ShouldBeNil)
			convey.So(r.Tips, convey.ShouldBeNil)
		})

		convey.Convey("When instructions are missing", func() {
			n.Instructions = nil
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestRecyclingCenter(t *testing.T) {
	convey.Convey("Given a center built from an insertable", t, func() {
		n := model.NewRecyclingCenter{
			Name:          "Depot",
			Address:       "1 Main St",
			ZipCode:       "12345",
			Phone:         strPtr(""),
			Hours:         "9-5",
			AcceptedTypes: []string{"plastic", "batteries"},
		}
		convey.So(n.Validate(), convey.ShouldBeNil)
		c := n.Build("c1")

		convey.Convey("Then distance and empty optionals are null", func() {
			convey.So(c.Distance, convey.ShouldBeNil)
			convey.So(c.Phone, convey.ShouldBeNil)
			convey.So(c.Latitude, convey.ShouldBeNil)
		})

		convey.Convey("Then zip matching uses exact or three character prefix", func() {
			convey.So(c.NearZip("12345"), convey.ShouldBeTrue)
			convey.So(c.NearZip("12399"), convey.ShouldBeTrue)
			convey.So(c.NearZip("12"), convey.ShouldBeFalse)
			convey.So(c.NearZip("54321"), convey.ShouldBeFalse)
		})

		convey.Convey("Then non-ASCII zip prefixes compare by character", func() {
			d := model.RecyclingCenter{ZipCode: "Åbø-12"}
			convey.So(d.NearZip("Åbø-99"), convey.ShouldBeTrue)
			convey.So(d.NearZip("Åb"), convey.ShouldBeFalse)
			convey.So(d.NearZip("Åbx-12"), convey.ShouldBeFalse)
			convey.So(model.RecyclingCenter{ZipCode: "ÅÅ1"}.NearZip("ÅÅ2"), convey.ShouldBeFalse)
		})

		convey.Convey("When accepted types are missing", func() {
			n.AcceptedTypes = nil
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestNewQuizResult(t *testing.T) {
	convey.Convey("Given an insertable result", t, func() {
		n := model.NewQuizResult{UserID: "u1", Score: intPtr(0), TotalQuestions: intPtr(4), CorrectAnswers: intPtr(0)}

		convey.Convey("When zero values are explicit", func() {
			convey.So(n.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When more answers are correct than asked", func() {
			n.CorrectAnswers = intPtr(5)
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the score is missing", func() {
			n.Score = nil
			convey.So(n.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("Then build stamps the completion time", func() {
			at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			r := n.Build("r1", at)
			convey.So(r.CompletedAt, convey.ShouldEqual, at)
			convey.So(r.TotalQuestions, convey.ShouldEqual, 4)
		})
	})
}

func TestStatsFor(t *testing.T) {
	convey.Convey("Given a user", t, func() {
		u := model.User{ID: "u1", BestStreak: 4}

		convey.Convey("When there are no results", func() {
			convey.So(model.StatsFor(u, nil), convey.ShouldResemble, model.UserStats{})
		})

		convey.Convey("When there are results", func() {
			results := []model.QuizResult{
				{Score: 100, CorrectAnswers: 2},
				{Score: 250, CorrectAnswers: 3},
			}
			s := model.StatsFor(u, results)
			convey.So(s.TotalQuizzes, convey.ShouldEqual, 2)
			convey.So(s.AverageScore, convey.ShouldEqual, 175)
			convey.So(s.BestScore, convey.ShouldEqual, 250)
			convey.So(s.CurrentStreak, convey.ShouldEqual, 4)
			convey.So(s.TotalCorrectAnswers, convey.ShouldEqual, 5)
		})
	})
}

func TestRegistration(t *testing.T) {
	convey.Convey("Given a registration", t, func() {
		r := model.Registration{Username: " eco ", Email: " Eco@Example.COM ", Password: "secret1"}

		convey.Convey("When it is valid", func() {
			convey.So(r.Validate(), convey.ShouldBeNil)
			convey.So(r.Email, convey.ShouldEqual, "eco@example.com")
			convey.So(r.Username, convey.ShouldEqual, "eco")
		})

		convey.Convey("When the email is malformed", func() {
			r.Email = "not-an-email"
			convey.So(r.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the password is short", func() {
			r.Password = "abc"
			convey.So(r.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestAccountSession(t *testing.T) {
	convey.Convey("Given an admin account", t, func() {
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		acc := model.Account{ID: "a1", UserID: "u1", Username: "admin", Role: model.RoleAdmin}

		s := acc.Session(at)

		convey.Convey("Then the session should describe it", func() {
			convey.So(s.UserID, convey.ShouldEqual, "u1")
			convey.So(s.Username, convey.ShouldEqual, "admin")
			convey.So(s.LoginTime, convey.ShouldEqual, at)
			convey.So(s.IsAuthenticated, convey.ShouldBeTrue)
			convey.So(s.IsAdmin(), convey.ShouldBeTrue)
		})

		convey.Convey("And a player session should not be admin", func() {
			acc.Role = model.RoleUser
			convey.So(acc.Session(at).IsAdmin(), convey.ShouldBeFalse)
			convey.So(model.Session{Role: model.RoleAdmin}.IsAdmin(), convey.ShouldBeFalse)
		})
	})
}
