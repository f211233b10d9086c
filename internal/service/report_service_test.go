package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inforia/internal/model"
	"inforia/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID    = "8b1c2f4e-3d5a-4c6b-9e7f-1a2b3c4d5e6f"
	testPatientID = "2f6e1d3c-4b5a-4e7f-8a9b-0c1d2e3f4a5b"
)

type saveFixture struct {
	subs     *fakeSubscriptionRepo
	usage    *fakeUsageRepo
	patients *fakePatientRepo
	reports  *fakeReportRepo
	google   *fakeGoogle
	exporter *fakeExporter
	svc      *reportService
}

func newSaveFixture(t *testing.T, used, limit int, status string) *saveFixture {
	t.Helper()
	subs := newFakeSubscriptionRepo(&model.Subscription{
		ID:           "sub-1",
		UserID:       testUserID,
		PlanID:       "profesional",
		Status:       status,
		ReportsLimit: limit,
		ReportsUsed:  used,
	})
	f := &saveFixture{
		subs:  subs,
		usage: &fakeUsageRepo{subs: subs},
		patients: &fakePatientRepo{patients: map[string]model.Patient{
			testPatientID: {ID: testPatientID, UserID: testUserID, FullName: "  Ana López "},
		}},
		reports:  &fakeReportRepo{},
		google:   &fakeGoogle{},
		exporter: &fakeExporter{},
	}
	subSvc := NewSubscriptionService(f.subs, f.usage, zerolog.Nop())
	f.svc = NewReportService(subSvc, f.patients, f.reports, f.google, f.exporter, &fakeDrafter{}, zerolog.Nop()).(*reportService)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) }
	return f
}

func googleClaims() *util.Claims {
	return &util.Claims{
		AppMetadata:      util.AppMetadata{Provider: "email", Providers: []string{"email", "google"}},
		RegisteredClaims: jwt.RegisteredClaims{Subject: testUserID},
	}
}

func saveInput() SaveReportInput {
	return SaveReportInput{
		Claims:            googleClaims(),
		GoogleAccessToken: "ya29.token",
		PatientID:         testPatientID,
		Content:           "# Informe\n\nContenido",
		SessionType:       " Evaluación inicial ",
	}
}

func TestSaveReportHappyPath(t *testing.T) {
	f := newSaveFixture(t, 5, 10, model.SubscriptionActive)

	res, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)

	require.Len(t, f.exporter.calls, 1)
	assert.Equal(t, "2024-03-05 - Ana López - Evaluación inicial", f.exporter.calls[0].Title)
	assert.Equal(t, "# Informe\n\nContenido", f.exporter.calls[0].Content)

	require.Len(t, f.reports.rows, 1)
	row := f.reports.rows[0]
	assert.Equal(t, testUserID, row.UserID)
	assert.Equal(t, testPatientID, row.PatientID)
	assert.Equal(t, "2024-03-05 - Ana López - Evaluación inicial", row.FileName)
	require.NotNil(t, row.FileSize)
	assert.Equal(t, int64(1024), *row.FileSize)

	assert.Equal(t, row.ID, res.Report.ID)
	assert.Equal(t, "  Ana López ", res.PatientName)
	assert.Equal(t, 6, res.Usage.ReportsUsed)
	assert.Equal(t, 4, res.ReportsRemaining())
	assert.False(t, res.UsageFromSnapshot)
	assert.Equal(t, 1, f.usage.calls)
}

func TestSaveReportLastSlotThenLimit(t *testing.T) {
	f := newSaveFixture(t, 9, 10, model.SubscriptionActive)

	res, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Usage.ReportsUsed)
	assert.Equal(t, 0, res.ReportsRemaining())

	_, err = f.svc.Save(context.Background(), saveInput())
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Len(t, f.exporter.calls, 1)
}

func TestSaveReportQuotaRejections(t *testing.T) {
	tests := []struct {
		name   string
		used   int
		limit  int
		status string
		want   error
	}{
		{"limit reached", 10, 10, model.SubscriptionActive, ErrQuotaExceeded},
		{"over limit", 12, 10, model.SubscriptionActive, ErrQuotaExceeded},
		{"canceled", 0, 10, model.SubscriptionCanceled, ErrSubscriptionInactive},
		{"expired", 3, 10, model.SubscriptionExpired, ErrSubscriptionInactive},
		{"limit_reached status", 10, 10, model.SubscriptionLimitReached, ErrSubscriptionInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaveFixture(t, tt.used, tt.limit, tt.status)

			_, err := f.svc.Save(context.Background(), saveInput())
			require.ErrorIs(t, err, tt.want)

			var qe *QuotaError
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, tt.used, qe.Subscription.ReportsUsed)
			if tt.want == ErrQuotaExceeded {
				assert.Equal(t, 0, qe.Subscription.ReportsRemaining())
			}

			assert.Zero(t, f.patients.calls)
			assert.Zero(t, f.google.calls)
			assert.Empty(t, f.exporter.calls)
			assert.Zero(t, f.reports.calls)
			assert.Zero(t, f.usage.calls)
		})
	}
}

func TestSaveReportNoSubscription(t *testing.T) {
	f := newSaveFixture(t, 0, 10, model.SubscriptionActive)
	f.subs.subs = map[string]*model.Subscription{}

	_, err := f.svc.Save(context.Background(), saveInput())
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
	assert.Empty(t, f.exporter.calls)
}

func TestSaveReportPatientNotOwned(t *testing.T) {
	f := newSaveFixture(t, 0, 10, model.SubscriptionActive)
	f.patients.patients[testPatientID] = model.Patient{ID: testPatientID, UserID: "someone-else", FullName: "X"}

	_, err := f.svc.Save(context.Background(), saveInput())
	require.ErrorIs(t, err, ErrPatientNotFound)
	assert.Zero(t, f.google.calls)
	assert.Empty(t, f.exporter.calls)
	assert.Zero(t, f.usage.calls)
}

func TestSaveReportIntegrationNotConnected(t *testing.T) {
	f := newSaveFixture(t, 0, 10, model.SubscriptionActive)
	in := saveInput()
	in.Claims.AppMetadata = util.AppMetadata{Provider: "email", Providers: []string{"email"}}

	_, err := f.svc.Save(context.Background(), in)
	require.ErrorIs(t, err, ErrIntegrationNotConnected)
	assert.Empty(t, f.exporter.calls)
	assert.Zero(t, f.reports.calls)
}

func TestSaveReportExportFailurePersistsNothing(t *testing.T) {
	for _, kind := range []error{ErrExportFailed, ErrTokenExpired} {
		t.Run(kind.Error(), func(t *testing.T) {
			f := newSaveFixture(t, 5, 10, model.SubscriptionActive)
			f.exporter.err = &UpstreamError{Kind: kind, Err: errors.New("drive get failed")}

			_, err := f.svc.Save(context.Background(), saveInput())
			require.ErrorIs(t, err, kind)
			assert.Zero(t, f.reports.calls)
			assert.Zero(t, f.usage.calls)
			assert.Equal(t, 5, f.subs.subs[testUserID].ReportsUsed)
		})
	}
}

func TestSaveReportPersistFailureSkipsIncrement(t *testing.T) {
	f := newSaveFixture(t, 5, 10, model.SubscriptionActive)
	f.reports.err = errors.New("duplicate key value violates unique constraint")

	_, err := f.svc.Save(context.Background(), saveInput())
	require.ErrorIs(t, err, ErrPersistFailed)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Message, "duplicate key")
	assert.Len(t, f.exporter.calls, 1)
	assert.Zero(t, f.usage.calls)
}

func TestSaveReportIncrementFailureStillSucceeds(t *testing.T) {
	f := newSaveFixture(t, 5, 10, model.SubscriptionActive)
	f.usage.err = errors.New("connection reset")

	res, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)
	assert.True(t, res.UsageFromSnapshot)
	assert.Equal(t, 6, res.Usage.ReportsUsed)
	assert.Equal(t, 4, res.ReportsRemaining())
	assert.Equal(t, "profesional", res.Usage.PlanID)
	assert.Equal(t, model.SubscriptionActive, res.Usage.Status)
	assert.Len(t, f.reports.rows, 1)
}

func TestSaveReportTwiceCreatesTwoDocuments(t *testing.T) {
	f := newSaveFixture(t, 0, 10, model.SubscriptionActive)

	first, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)
	second, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)

	assert.Len(t, f.exporter.calls, 2)
	assert.NotEqual(t, first.Report.ID, second.Report.ID)
	assert.NotEqual(t, first.Report.GDriveFileID, second.Report.GDriveFileID)
	assert.Equal(t, 2, second.Usage.ReportsUsed)
}

func TestReportFileNameUsesUTCDate(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2024, 6, 6, 1, 15, 0, 0, madrid)

	assert.Equal(t, "2024-06-05 - María Pérez - Seguimiento", ReportFileName(at, " María Pérez\t", "Seguimiento  "))
}

func TestListPatientReports(t *testing.T) {
	f := newSaveFixture(t, 0, 10, model.SubscriptionActive)
	_, err := f.svc.Save(context.Background(), saveInput())
	require.NoError(t, err)

	reports, err := f.svc.ListPatientReports(context.Background(), testUserID, testPatientID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	_, err = f.svc.ListPatientReports(context.Background(), "other-user", testPatientID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDraftDelegatesToDrafter(t *testing.T) {
	d := &fakeDrafter{report: "# Informe"}
	svc := NewReportService(nil, nil, nil, nil, nil, d, zerolog.Nop())

	out, err := svc.Draft(context.Background(), "hola", "")
	require.NoError(t, err)
	assert.Equal(t, "# Informe", out)

	_, err = svc.Draft(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoInputProvided)
}
