package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"inforia/internal/model"
	"inforia/internal/util"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type fakeSubscriptionRepo struct {
	mu          sync.Mutex
	subs        map[string]*model.Subscription
	getErr      error
	getCalls    int
	renewCalls  int
	batches     []int64
	assigned    map[string]string
	assignedLim map[string]int
}

func newFakeSubscriptionRepo(subs ...*model.Subscription) *fakeSubscriptionRepo {
	r := &fakeSubscriptionRepo{
		subs:        map[string]*model.Subscription{},
		assigned:    map[string]string{},
		assignedLim: map[string]int{},
	}
	for _, s := range subs {
		r.subs[s.UserID] = s
	}
	return r
}

func (r *fakeSubscriptionRepo) GetSubscription(_ context.Context, userID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubscriptionRepo) RenewSubscription(_ context.Context, userID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok || s.Status == model.SubscriptionCanceled {
		return nil, nil
	}
	now := time.Now().UTC()
	s.ReportsUsed = 0
	s.Status = model.SubscriptionActive
	s.CurrentPeriodStart = now
	s.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	cp := *s
	return &cp, nil
}

// RenewExpired pops the next scripted batch size.
func (r *fakeSubscriptionRepo) RenewExpired(_ context.Context, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renewCalls++
	if len(r.batches) == 0 {
		return 0, nil
	}
	n := r.batches[0]
	r.batches = r.batches[1:]
	return n, nil
}

func (r *fakeSubscriptionRepo) AssignPlan(_ context.Context, userID, planID string, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assigned[userID] = planID
	r.assignedLim[userID] = limit
	return nil
}

// fakeUsageRepo increments the counters held by a fakeSubscriptionRepo.
type fakeUsageRepo struct {
	subs  *fakeSubscriptionRepo
	err   error
	calls int
}

func (u *fakeUsageRepo) IncrementReportsUsed(_ context.Context, userID string) (*model.UsageCounter, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	u.subs.mu.Lock()
	defer u.subs.mu.Unlock()
	s := u.subs.subs[userID]
	s.ReportsUsed++
	return &model.UsageCounter{PlanID: s.PlanID, ReportsLimit: s.ReportsLimit, ReportsUsed: s.ReportsUsed, Status: s.Status}, nil
}

type fakePatientRepo struct {
	patients map[string]model.Patient
	err      error
	calls    int
}

func (r *fakePatientRepo) GetOwnedPatient(_ context.Context, patientID, userID string) (*model.Patient, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.patients[patientID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePatientRepo) ListPatients(_ context.Context, userID string) ([]model.Patient, error) {
	out := []model.Patient{}
	for _, p := range r.patients {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type fakeReportRepo struct {
	rows  []model.Report
	err   error
	calls int
}

func (r *fakeReportRepo) CreateReport(_ context.Context, rep *model.Report) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	rep.ID = uuid.NewString()
	rep.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, *rep)
	return nil
}

func (r *fakeReportRepo) ListReportsByPatient(_ context.Context, userID, patientID string) ([]model.Report, error) {
	out := []model.Report{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID && r.rows[i].PatientID == patientID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

type fakeGoogle struct {
	err   error
	calls int
}

func (g *fakeGoogle) TokenSource(_ context.Context, claims *util.Claims, accessToken string) (oauth2.TokenSource, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if !claims.HasProvider("google") {
		return nil, ErrIntegrationNotConnected
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}), nil
}

func (g *fakeGoogle) Link(context.Context, string, string) error { return nil }
func (g *fakeGoogle) Unlink(context.Context, string) error       { return nil }

type exportCall struct {
	Title   string
	Content string
}

type fakeExporter struct {
	calls []exportCall
	err   error
}

func (e *fakeExporter) Export(_ context.Context, _ oauth2.TokenSource, title, content string) (*model.ExternalDocument, error) {
	e.calls = append(e.calls, exportCall{Title: title, Content: content})
	if e.err != nil {
		return nil, e.err
	}
	id := uuid.NewString()
	size := int64(1024)
	return &model.ExternalDocument{
		ID:   id,
		Name: title,
		URL:  "https://docs.google.com/document/d/" + id + "/edit",
		Size: &size,
	}, nil
}

type fakeDrafter struct {
	report string
	err    error
	calls  int
}

func (d *fakeDrafter) Draft(_ context.Context, transcription, sessionNotes string) (string, error) {
	d.calls++
	if transcription == "" && sessionNotes == "" {
		return "", ErrNoInputProvided
	}
	return d.report, d.err
}
