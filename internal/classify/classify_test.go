package classify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"cohortcompare/internal/domain"
)

func TestAge(t *testing.T) {
	date := func(value string) time.Time {
		parsed, err := time.Parse(domain.DateLayout, value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		return parsed
	}

	tests := []struct {
		name  string
		dob   string
		today string
		want  int
	}{
		{"birthday today counts as occurred", "2000-06-13", "2024-06-13", 24},
		{"day before birthday", "2000-06-13", "2024-06-12", 23},
		{"birthday later this year", "2000-12-31", "2024-06-13", 23},
		{"birthday earlier this year", "2000-01-02", "2024-06-13", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(date(tt.dob), date(tt.today)))
		})
	}
}

// runDate fixes the calendar day every classification test evaluates
// against.
var runDate = time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)

type ClassifySuite struct {
	suite.Suite
	classifier *Classifier
}

func TestClassifySuite(t *testing.T) {
	suite.Run(t, new(ClassifySuite))
}

func (s *ClassifySuite) SetupTest() {
	s.classifier = New(WithNow(func() time.Time { return runDate }))
}

// dobForAge picks a date of birth whose birthday has already passed in the
// run year, yielding exactly the requested age on runDate.
func dobForAge(age int) time.Time {
	return time.Date(runDate.Year()-age, 1, 15, 0, 0, 0, 0, time.UTC)
}

func (s *ClassifySuite) classifyOne(rec domain.ParticipantRecord) domain.ClassifiedRecord {
	s.T().Helper()
	out, err := s.classifier.Classify(context.Background(), []domain.ParticipantRecord{rec})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	return out[0]
}

func (s *ClassifySuite) TestWithinCohortNotRegistered() {
	s.Run("death removal reason is category 4", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:        "4444",
			DateOfBirth:      dobForAge(54),
			ReasonForRemoval: "DEATH",
			Gender:           "FEMALE",
		}
		s.Equal(domain.CategoryNoGPDeathRemoval, s.classifyOne(rec).Category)
	})

	s.Run("whole death vocabulary counts", func() {
		for _, reason := range []string{"DEATH", "DEA", "UNCERTIFIED_DEATH"} {
			rec := domain.ParticipantRecord{
				NHSNumber:        "4444",
				DateOfBirth:      dobForAge(54),
				ReasonForRemoval: reason,
				Gender:           "FEMALE",
			}
			s.Equal(domain.CategoryNoGPDeathRemoval, s.classifyOne(rec).Category, reason)
		}
	})

	s.Run("other removal reason is category 5", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:        "5555",
			DateOfBirth:      dobForAge(54),
			ReasonForRemoval: "NOT DEATH",
			Gender:           "FEMALE",
		}
		s.Equal(domain.CategoryNoGPOtherRemoval, s.classifyOne(rec).Category)
	})

	s.Run("vocabulary match is case-sensitive", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:        "5555",
			DateOfBirth:      dobForAge(54),
			ReasonForRemoval: "death",
			Gender:           "FEMALE",
		}
		s.Equal(domain.CategoryNoGPOtherRemoval, s.classifyOne(rec).Category)
	})

	s.Run("absent removal reason is category 5", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "5555",
			DateOfBirth: dobForAge(54),
			Gender:      "FEMALE",
		}
		s.Equal(domain.CategoryNoGPOtherRemoval, s.classifyOne(rec).Category)
	})
}

func (s *ClassifySuite) TestWithinCohortDummyPractice() {
	rec := domain.ParticipantRecord{
		NHSNumber:           "6666",
		DateOfBirth:         dobForAge(54),
		PrimaryCareProvider: "ZZZG82650",
		Gender:              "FEMALE",
	}
	s.Equal(domain.CategoryDummyGPPractice, s.classifyOne(rec).Category)
}

func (s *ClassifySuite) TestMaleOverride() {
	s.Run("male beats dummy practice", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:           "7777",
			DateOfBirth:         dobForAge(54),
			PrimaryCareProvider: "ZZZG82650",
			Gender:              "MALE",
		}
		s.Equal(domain.CategoryCohortMale, s.classifyOne(rec).Category)
	})

	s.Run("male beats not-registered categories", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:        "7777",
			DateOfBirth:      dobForAge(54),
			ReasonForRemoval: "DEATH",
			Gender:           "MALE",
		}
		s.Equal(domain.CategoryCohortMale, s.classifyOne(rec).Category)
	})

	s.Run("male applies even with a real practice", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:           "7777",
			DateOfBirth:         dobForAge(54),
			PrimaryCareProvider: "G82650",
			Gender:              "MALE",
		}
		s.Equal(domain.CategoryCohortMale, s.classifyOne(rec).Category)
	})

	s.Run("numeric gender code denotes male", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:           "7777",
			DateOfBirth:         dobForAge(54),
			PrimaryCareProvider: "ZZZG82650",
			Gender:              "1",
		}
		s.Equal(domain.CategoryCohortMale, s.classifyOne(rec).Category)
	})

	s.Run("male does not override outside the cohort band", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "8888",
			DateOfBirth: dobForAge(80),
			Gender:      "MALE",
		}
		s.Equal(domain.CategoryAboveCohort, s.classifyOne(rec).Category)
	})
}

func (s *ClassifySuite) TestWithinCohortUndetermined() {
	risk := false
	rec := domain.ParticipantRecord{
		NHSNumber:           "0000",
		DateOfBirth:         dobForAge(54),
		PrimaryCareProvider: "G82650",
		Gender:              "FEMALE",
		IsHigherRisk:        &risk,
	}
	s.Equal(domain.CategoryUndetermined, s.classifyOne(rec).Category)
}

func (s *ClassifySuite) TestMissingGenderIsNotMale() {
	rec := domain.ParticipantRecord{
		NHSNumber:           "0000",
		DateOfBirth:         dobForAge(54),
		PrimaryCareProvider: "ZZZG82650",
	}
	s.Equal(domain.CategoryDummyGPPractice, s.classifyOne(rec).Category)
}

func (s *ClassifySuite) TestBelowCohort() {
	s.Run("high risk is category 1", func() {
		risk := true
		rec := domain.ParticipantRecord{
			NHSNumber:    "1111",
			DateOfBirth:  dobForAge(26),
			IsHigherRisk: &risk,
		}
		s.Equal(domain.CategoryBelowCohortHighRisk, s.classifyOne(rec).Category)
	})

	s.Run("not high risk is category 2", func() {
		risk := false
		rec := domain.ParticipantRecord{
			NHSNumber:    "2222",
			DateOfBirth:  dobForAge(26),
			IsHigherRisk: &risk,
		}
		s.Equal(domain.CategoryBelowCohortNotHighRisk, s.classifyOne(rec).Category)
	})

	s.Run("record shape without the flag is undetermined", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "3333",
			DateOfBirth: dobForAge(26),
		}
		s.Equal(domain.CategoryUndetermined, s.classifyOne(rec).Category)
	})
}

func (s *ClassifySuite) TestAboveCohort() {
	// Other fields must not matter once the record is above cohort age.
	risk := true
	rec := domain.ParticipantRecord{
		NHSNumber:           "9999",
		DateOfBirth:         dobForAge(80),
		PrimaryCareProvider: "ZZZG82650",
		ReasonForRemoval:    "DEATH",
		Gender:              "MALE",
		IsHigherRisk:        &risk,
	}
	s.Equal(domain.CategoryAboveCohort, s.classifyOne(rec).Category)
}

func (s *ClassifySuite) TestCohortBoundaries() {
	s.Run("age 44 is within the band", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "1000",
			DateOfBirth: dobForAge(44),
			Gender:      "MALE",
		}
		s.Equal(domain.CategoryCohortMale, s.classifyOne(rec).Category)
	})

	s.Run("age 43 is below the band", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "1001",
			DateOfBirth: dobForAge(43),
			Gender:      "MALE",
		}
		s.Equal(domain.CategoryUndetermined, s.classifyOne(rec).Category)
	})

	s.Run("age 74 is above the band", func() {
		rec := domain.ParticipantRecord{
			NHSNumber:   "1002",
			DateOfBirth: dobForAge(74),
		}
		s.Equal(domain.CategoryAboveCohort, s.classifyOne(rec).Category)
	})
}

func (s *ClassifySuite) TestInvalidDateOfBirthFailsFast() {
	records := []domain.ParticipantRecord{
		{NHSNumber: "1111", DateOfBirth: dobForAge(54)},
		{NHSNumber: "2222"},
	}

	_, err := s.classifier.Classify(context.Background(), records)

	var invalid *domain.InvalidRecordError
	s.Require().ErrorAs(err, &invalid)
	s.Equal("2222", invalid.Key.NHSNumber)
}

func (s *ClassifySuite) TestTotalityAndIdempotence() {
	records := make([]domain.ParticipantRecord, 0, 3000)
	for i := 0; i < 3000; i++ {
		rec := domain.ParticipantRecord{
			NHSNumber:   fmt.Sprintf("%010d", i),
			DateOfBirth: dobForAge(20 + i%60),
		}
		switch i % 4 {
		case 0:
			rec.Gender = "MALE"
		case 1:
			rec.PrimaryCareProvider = "ZZZG82650"
		case 2:
			rec.ReasonForRemoval = "DEA"
		}
		records = append(records, rec)
	}

	first, err := s.classifier.Classify(context.Background(), records)
	s.Require().NoError(err)
	second, err := s.classifier.Classify(context.Background(), records)
	s.Require().NoError(err)

	s.Require().Len(first, len(records))
	for i, classified := range first {
		// Order preserved, every input present exactly once, one valid
		// category each.
		s.Equal(records[i].NHSNumber, classified.NHSNumber)
		s.True(classified.Category.Valid())
	}
	s.Equal(first, second)
}
