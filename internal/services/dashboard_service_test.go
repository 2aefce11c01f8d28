package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

func intPtr(i int) *int { return &i }

func reportInput(name string, position *int) models.ReportInput {
	return models.ReportInput{
		Name:     name,
		Type:     models.ReportTypeNumber,
		Position: position,
		Metrics:  []models.MetricSpec{{Type: models.MetricMessagesSent}},
	}
}

func newTestDashboardService(dashboards *fakeDashboardRepo, projects *fakeProjectRepo) *DashboardService {
	s := NewDashboardService(dashboards, projects, zerolog.Nop())
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func positions(reports []models.Report) []int {
	out := make([]int, len(reports))
	for i, r := range reports {
		out[i] = r.Position
	}
	return out
}

func names(reports []models.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Name
	}
	return out
}

func TestNormalizeRejectsGap(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())
	_, err := s.Normalize([]models.ReportInput{
		reportInput("a", intPtr(1)),
		reportInput("b", intPtr(3)),
	})
	var ve *interfaces.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestNormalizeOrdersByPosition(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())
	reports, err := s.Normalize([]models.ReportInput{
		reportInput("second", intPtr(2)),
		reportInput("first", intPtr(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, positions(reports))
	assert.Equal(t, []string{"first", "second"}, names(reports))
}

func TestNormalizeFillsFirstGap(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())
	reports, err := s.Normalize([]models.ReportInput{
		reportInput("c", intPtr(3)),
		reportInput("a", nil),
		reportInput("b", nil),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, positions(reports))
	assert.Equal(t, []string{"a", "b", "c"}, names(reports))
	for _, r := range reports {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, models.DefaultReportSize, r.Size)
	}
}

func TestNormalizeRejectsExplicitPositionTakenByEarlierReport(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())
	_, err := s.Normalize([]models.ReportInput{
		reportInput("a", nil),
		reportInput("b", intPtr(1)),
	})
	var ve *interfaces.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestNormalizeValidation(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())

	blankName := reportInput("  ", nil)
	badType := reportInput("a", nil)
	badType.Type = "table"
	noMetrics := reportInput("a", nil)
	noMetrics.Metrics = nil
	badMetric := reportInput("a", nil)
	badMetric.Metrics = []models.MetricSpec{{Type: "clicks"}}
	zeroPos := reportInput("a", intPtr(0))
	dupID := []models.ReportInput{reportInput("a", nil), reportInput("b", nil)}
	dupID[0].ID, dupID[1].ID = "r1", "r1"

	cases := map[string][]models.ReportInput{
		"blank name":     {blankName},
		"unknown type":   {badType},
		"no metrics":     {noMetrics},
		"unknown metric": {badMetric},
		"zero position":  {zeroPos},
		"duplicate id":   dupID,
	}
	for name, inputs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Normalize(inputs)
			var ve *interfaces.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateGrantsProjectAccess(t *testing.T) {
	dashboards := newFakeDashboardRepo()
	projects := newFakeProjectRepo()
	s := newTestDashboardService(dashboards, projects)

	d, err := s.Create(context.Background(), "p1", models.CreateDashboardRequest{
		Name:    " Overview ",
		Reports: []models.ReportInput{reportInput("sent", nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Overview", d.Name)
	assert.Equal(t, 1, d.Version)

	got, err := s.Get(context.Background(), "p1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, positions(got.Reports))

	list, err := s.List(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, d.ID, list[0].ID)
}

func threeReportDashboard() *models.Dashboard {
	return &models.Dashboard{
		ID:      "d1",
		Version: 4,
		Reports: []models.Report{
			{ID: "r1", Position: 1, Name: "one", Type: models.ReportTypeNumber},
			{ID: "r2", Position: 2, Name: "two", Type: models.ReportTypePie},
			{ID: "r3", Position: 3, Name: "three", Type: models.ReportTypeBar},
		},
	}
}

func projectWith(ids ...string) *models.Project {
	return &models.Project{ID: "p1", Dashboards: ids}
}

func TestAddReportRenumbersIgnoringPosition(t *testing.T) {
	d := threeReportDashboard()
	d.Reports = d.Reports[:2]
	s := newTestDashboardService(newFakeDashboardRepo(d), newFakeProjectRepo(projectWith("d1")))

	got, err := s.AddReport(context.Background(), "p1", "d1", reportInput("new", intPtr(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, positions(got.Reports))
	assert.Equal(t, []string{"one", "two", "new"}, names(got.Reports))
	assert.Equal(t, 5, got.Version)
}

func TestRemoveReportRenumbers(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("d1")))

	got, err := s.RemoveReport(context.Background(), "p1", "d1", "r2")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, positions(got.Reports))
	assert.Equal(t, []string{"one", "three"}, names(got.Reports))
}

func TestRemoveMissingReportIsNotFound(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("d1")))

	_, err := s.RemoveReport(context.Background(), "p1", "d1", "nope")
	var nf *interfaces.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "report", nf.Resource)
}

func TestAccessDeniedIsDistinctFromNotFound(t *testing.T) {
	dashboards := newFakeDashboardRepo(threeReportDashboard())
	s := newTestDashboardService(dashboards, newFakeProjectRepo(projectWith("gone")))

	_, err := s.Get(context.Background(), "p1", "d1")
	var ad *interfaces.AccessDeniedError
	require.ErrorAs(t, err, &ad)

	_, err = s.Get(context.Background(), "other", "d1")
	require.ErrorAs(t, err, &ad, "unknown project has no capabilities")

	_, err = s.Get(context.Background(), "p1", "gone")
	var nf *interfaces.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestUpdateReplacesReports(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("d1")))
	name := "Renamed"

	got, err := s.Update(context.Background(), "p1", "d1", models.UpdateDashboardRequest{
		Name:    &name,
		Reports: []models.ReportInput{reportInput("b", intPtr(2)), reportInput("a", nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []string{"a", "b"}, names(got.Reports))
	assert.Equal(t, 5, got.Version)
}

func TestUpdateWithStaleVersionConflicts(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("d1")))

	_, err := s.Update(context.Background(), "p1", "d1", models.UpdateDashboardRequest{
		Reports: []models.ReportInput{reportInput("a", nil)},
		Version: intPtr(3),
	})
	var ce *interfaces.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestUpdateRequiresReports(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("d1")))

	_, err := s.Update(context.Background(), "p1", "d1", models.UpdateDashboardRequest{})
	var ve *interfaces.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestListForUnknownProjectIsEmpty(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(), newFakeProjectRepo())

	list, err := s.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectStoreFailureIsInternal(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.err = errStoreDown
	s := newTestDashboardService(newFakeDashboardRepo(), projects)

	_, err := s.Get(context.Background(), "p1", "d1")
	var ie *interfaces.InternalError
	require.ErrorAs(t, err, &ie)
}

func TestUpdateChecksAccessBeforeValidating(t *testing.T) {
	s := newTestDashboardService(newFakeDashboardRepo(threeReportDashboard()), newFakeProjectRepo(projectWith("other")))

	_, err := s.Update(context.Background(), "p1", "d1", models.UpdateDashboardRequest{
		Reports: []models.ReportInput{reportInput("a", intPtr(5))},
	})
	var ad *interfaces.AccessDeniedError
	require.ErrorAs(t, err, &ad)
}

func TestCreateRemovesDashboardWhenGrantFails(t *testing.T) {
	dashboards := newFakeDashboardRepo()
	projects := newFakeProjectRepo()
	projects.addErr = errStoreDown
	s := newTestDashboardService(dashboards, projects)

	_, err := s.Create(context.Background(), "p1", models.CreateDashboardRequest{
		Name:    "Overview",
		Reports: []models.ReportInput{reportInput("sent", nil)},
	})
	var ie *interfaces.InternalError
	require.ErrorAs(t, err, &ie)
	assert.Empty(t, dashboards.dashboards)
}
