package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// fakeBackend serves the dashboard gateways from memory.
type fakeBackend struct {
	mu sync.Mutex

	doctors   []gateway.Doctor
	filters   []gateway.DoctorFilter
	deleted   []int64
	tokens    []string
	deleteRes gateway.Result

	profile      *gateway.Patient
	profileErr   error
	profileCalls int

	daily     []gateway.DailyRow
	top       []gateway.TopDoctorRow
	reportErr error
	reports   []string
}

func (f *fakeBackend) FilterDoctors(_ context.Context, criteria gateway.DoctorFilter) ([]gateway.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, criteria)
	return append([]gateway.Doctor(nil), f.doctors...), nil
}

func (f *fakeBackend) DeleteDoctor(_ context.Context, token string, id int64) gateway.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	f.tokens = append(f.tokens, token)
	return f.deleteRes
}

func (f *fakeBackend) PatientProfile(_ context.Context, token string) (*gateway.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	f.tokens = append(f.tokens, token)
	return f.profile, f.profileErr
}

func (f *fakeBackend) DailyReport(_ context.Context, token, date string) ([]gateway.DailyRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, "daily:"+date)
	return f.daily, f.reportErr
}

func (f *fakeBackend) TopDoctorByMonth(_ context.Context, token string, month, year int) ([]gateway.TopDoctorRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, "month")
	return f.top, f.reportErr
}

func (f *fakeBackend) TopDoctorByYear(_ context.Context, token string, year int) ([]gateway.TopDoctorRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, "year")
	return f.top, f.reportErr
}

// noForms satisfies modal.Gateway for tests that only open forms.
type noForms struct{}

func (noForms) AdminLogin(context.Context, gateway.AdminCredentials) gateway.Result {
	return gateway.Result{}
}

func (noForms) DoctorLogin(context.Context, gateway.Credentials) gateway.Result {
	return gateway.Result{}
}

func (noForms) PatientLogin(context.Context, gateway.Credentials) gateway.Result {
	return gateway.Result{}
}

func (noForms) PatientSignup(context.Context, gateway.SignupRequest) gateway.Result {
	return gateway.Result{}
}

func (noForms) AddDoctor(context.Context, string, gateway.DoctorInput) gateway.Result {
	return gateway.Result{}
}

func (noForms) UpdateDoctor(context.Context, string, gateway.DoctorInput) gateway.Result {
	return gateway.Result{}
}

func (noForms) BookAppointment(context.Context, string, gateway.BookingRequest) gateway.Result {
	return gateway.Result{}
}

func newSession(t *testing.T, role session.Role, token string) *session.Session {
	t.Helper()
	ctx := context.Background()
	sess, err := session.New(ctx, session.NewMemoryStore(), session.WithLogger(logging.Discard()))
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, sess.SetSession(ctx, role, token))
	} else {
		require.NoError(t, sess.SetRole(ctx, role))
	}
	return sess
}

func testOptions() Options {
	return Options{Logger: logging.Discard(), Debounce: 10 * time.Millisecond}
}

func threeDoctors() []gateway.Doctor {
	return []gateway.Doctor{
		{ID: 3, Name: "Dr. Adams", Specialty: "ENT", AvailableTimes: []string{"09:00-10:00"}},
		{ID: 7, Name: "Dr. Smith", Specialty: "Dentist", AvailableTimes: []string{"10:00-11:00"}},
		{ID: 9, Name: "Dr. Young", Specialty: "Urologist", AvailableTimes: []string{"14:00-15:00"}},
	}
}

func nodeIDs(nodes []ui.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestHeaderPerRole(t *testing.T) {
	labels := func(items []NavItem) []string {
		out := make([]string, 0, len(items))
		for _, i := range items {
			out = append(out, i.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Add Doctor", "Logout"}, labels(Header(session.RoleAdmin)))
	assert.Equal(t, []string{"Home", "Logout"}, labels(Header(session.RoleDoctor)))
	assert.Equal(t, []string{"Login", "Sign Up"}, labels(Header(session.RolePatient)))
	assert.Equal(t, []string{"Home", "Appointments", "Logout"}, labels(Header(session.RoleLoggedPatient)))
	assert.Empty(t, Header(session.RoleAnonymous))
	assert.Equal(t, modal.KindAddDoctor, Header(session.RoleAdmin)[0].Form)
}

func TestGuardDropsTokenlessSession(t *testing.T) {
	sess := newSession(t, session.RoleAdmin, "")
	host := &ui.RecordingHost{}

	_, ok := Guard(context.Background(), sess, host)

	assert.False(t, ok)
	assert.Equal(t, session.RoleAnonymous, sess.Role())
	assert.Equal(t, []string{session.ExpiredNotice}, host.Alerts())
	assert.Equal(t, []string{ui.PathPublic}, host.Visits())
}

func TestLogoutTargets(t *testing.T) {
	ctx := context.Background()

	admin := newSession(t, session.RoleAdmin, "abc")
	host := &ui.RecordingHost{}
	require.NoError(t, Logout(ctx, admin, host))
	assert.Equal(t, []string{ui.PathPublic}, host.Visits())
	assert.Equal(t, session.Snapshot{Role: session.RoleAnonymous}, admin.Snapshot())

	patient := newSession(t, session.RoleLoggedPatient, "pt")
	host = &ui.RecordingHost{}
	require.NoError(t, Logout(ctx, patient, host))
	assert.Equal(t, []string{ui.PathPatientDashboard}, host.Visits())
	assert.Equal(t, session.Snapshot{Role: session.RolePatient}, patient.Snapshot())
}
