package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cohortcompare/internal/classify"
	"cohortcompare/internal/domain"
	"cohortcompare/internal/reconcile/mocks"
	"cohortcompare/internal/report"
	"cohortcompare/internal/store"
)

var runDate = time.Date(2024, 6, 13, 9, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	runs      *store.InMemoryRunStore
	discs     *store.InMemoryDiscrepancyStore
	publisher *report.InMemoryPublisher
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.runs = store.NewInMemoryRunStore()
	s.discs = store.NewInMemoryDiscrepancyStore()
	s.publisher = report.NewInMemoryPublisher()

	var err error
	s.service, err = New(s.runs, s.discs,
		WithClassifier(classify.New(classify.WithNow(func() time.Time { return runDate }))),
		WithPublisher(s.publisher),
	)
	s.Require().NoError(err)
}

func date(value string) time.Time {
	parsed, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func (s *ServiceSuite) TestNew() {
	s.Run("nil run store returns error", func() {
		_, err := New(nil, s.discs)
		s.Error(err)
	})

	s.Run("nil discrepancy store returns error", func() {
		_, err := New(s.runs, nil)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestRunReconcilesAndPersists() {
	ctx := context.Background()

	caas := []domain.ParticipantRecord{
		{NHSNumber: "1111", DateOfBirth: date("1934-12-11")},
		// Within cohort, male: category 7.
		{NHSNumber: "2222", DateOfBirth: date("1970-05-12"), Gender: "1", PrimaryCareProvider: "G82650"},
	}
	bss := []domain.ParticipantRecord{
		{NHSNumber: "1111", DateOfBirth: date("1934-12-11")},
		// Above cohort: category 3.
		{NHSNumber: "3333", DateOfBirth: date("1940-01-01"), Gender: "FEMALE"},
	}

	run, err := s.service.Run(ctx, caas, bss)
	s.Require().NoError(err)

	s.Equal(domain.RunStatusSucceeded, run.Status)
	s.Equal(2, run.CAASTotal)
	s.Equal(2, run.BSSTotal)
	s.Equal(1, run.CAASUnmatched)
	s.Equal(1, run.BSSUnmatched)
	s.False(run.FinishedAt.IsZero())

	stored, err := s.runs.Get(ctx, run.ID)
	s.Require().NoError(err)
	s.Equal(domain.RunStatusSucceeded, stored.Status)

	caasDiscs, err := s.discs.ListByRun(ctx, run.ID, domain.SourceCAAS)
	s.Require().NoError(err)
	s.Require().Len(caasDiscs, 1)
	s.Equal("2222", caasDiscs[0].NHSNumber)
	s.Equal(domain.CategoryCohortMale, caasDiscs[0].Category)

	bssDiscs, err := s.discs.ListByRun(ctx, run.ID, domain.SourceBSS)
	s.Require().NoError(err)
	s.Require().Len(bssDiscs, 1)
	s.Equal("3333", bssDiscs[0].NHSNumber)
	s.Equal(domain.CategoryAboveCohort, bssDiscs[0].Category)

	reports := s.publisher.Reports()
	s.Require().Len(reports, 1)
	s.Equal(run.ID, reports[0].Run.ID)
	s.Equal(1, reports[0].CategoryCounts[domain.SourceCAAS][domain.CategoryCohortMale])
	s.Equal(1, reports[0].CategoryCounts[domain.SourceBSS][domain.CategoryAboveCohort])
}

func (s *ServiceSuite) TestRunWithEmptyExtracts() {
	ctx := context.Background()
	bss := []domain.ParticipantRecord{
		{NHSNumber: "3333", DateOfBirth: date("1940-01-01")},
	}

	run, err := s.service.Run(ctx, nil, bss)
	s.Require().NoError(err)

	s.Equal(domain.RunStatusSucceeded, run.Status)
	s.Equal(0, run.CAASUnmatched)
	s.Equal(1, run.BSSUnmatched)
}

func (s *ServiceSuite) TestRunFailsOnInvalidRecord() {
	ctx := context.Background()
	caas := []domain.ParticipantRecord{{NHSNumber: "1111"}}

	run, err := s.service.Run(ctx, caas, nil)

	var invalid *domain.InvalidRecordError
	s.Require().ErrorAs(err, &invalid)
	s.Equal(domain.RunStatusFailed, run.Status)
	s.NotEmpty(run.Error)

	stored, storeErr := s.runs.Get(ctx, run.ID)
	s.Require().NoError(storeErr)
	s.Equal(domain.RunStatusFailed, stored.Status)
}

func (s *ServiceSuite) TestRunFailsWhenPublishFails() {
	ctrl := gomock.NewController(s.T())
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	service, err := New(s.runs, s.discs, WithPublisher(publisher))
	s.Require().NoError(err)

	caas := []domain.ParticipantRecord{{NHSNumber: "1111", DateOfBirth: date("1970-05-12")}}
	run, err := service.Run(context.Background(), caas, nil)

	s.Require().Error(err)
	s.Contains(err.Error(), "publish run report")
	s.Equal(domain.RunStatusFailed, run.Status)
}

func (s *ServiceSuite) TestRunFailsWhenPersistenceFails() {
	ctrl := gomock.NewController(s.T())
	discs := mocks.NewMockDiscrepancyStore(ctrl)
	discs.EXPECT().
		Append(gomock.Any(), gomock.Any(), domain.SourceCAAS, gomock.Any()).
		Return(errors.New("connection reset"))

	service, err := New(s.runs, discs)
	s.Require().NoError(err)

	caas := []domain.ParticipantRecord{{NHSNumber: "1111", DateOfBirth: date("1970-05-12")}}
	run, err := service.Run(context.Background(), caas, nil)

	s.Require().Error(err)
	s.Equal(domain.RunStatusFailed, run.Status)

	stored, storeErr := s.runs.Get(context.Background(), run.ID)
	s.Require().NoError(storeErr)
	s.Equal(domain.RunStatusFailed, stored.Status)
}

func (s *ServiceSuite) TestRunFromFiles() {
	dir := s.T().TempDir()
	caasPath := filepath.Join(dir, "caas.csv")
	bssPath := filepath.Join(dir, "bss.csv")

	caasCSV := "nhs_number,date_of_birth,gender\n" +
		"1111,1934-12-11,FEMALE\n" +
		"2222,1970-05-12,1\n"
	bssCSV := "nhs_number,date_of_birth,gender,is_higher_risk\n" +
		"1111,1934-12-11,FEMALE,false\n" +
		"3333,1998-01-15,FEMALE,true\n"
	s.Require().NoError(os.WriteFile(caasPath, []byte(caasCSV), 0o600))
	s.Require().NoError(os.WriteFile(bssPath, []byte(bssCSV), 0o600))

	run, err := s.service.RunFromFiles(context.Background(), caasPath, bssPath)
	s.Require().NoError(err)

	s.Equal(1, run.CAASUnmatched)
	s.Equal(1, run.BSSUnmatched)

	bssDiscs, err := s.discs.ListByRun(context.Background(), run.ID, domain.SourceBSS)
	s.Require().NoError(err)
	s.Require().Len(bssDiscs, 1)
	s.Equal(domain.CategoryBelowCohortHighRisk, bssDiscs[0].Category)
}

type fakeCache struct {
	latest domain.Run
	ok     bool
}

func (c *fakeCache) SetLatest(_ context.Context, run domain.Run) error {
	c.latest = run
	c.ok = true
	return nil
}

func (c *fakeCache) GetLatest(_ context.Context) (domain.Run, bool, error) {
	return c.latest, c.ok, nil
}

func (s *ServiceSuite) TestLatestRunServedFromCache() {
	ctx := context.Background()
	cache := &fakeCache{}

	service, err := New(s.runs, s.discs,
		WithClassifier(classify.New(classify.WithNow(func() time.Time { return runDate }))),
		WithSummaryCache(cache),
	)
	s.Require().NoError(err)

	run, err := service.Run(ctx, []domain.ParticipantRecord{
		{NHSNumber: "1111", DateOfBirth: date("1970-05-12")},
	}, nil)
	s.Require().NoError(err)
	s.True(cache.ok)

	latest, err := service.LatestRun(ctx)
	s.Require().NoError(err)
	s.Equal(run.ID, latest.ID)
}
