package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	opts = append([]ClientOption{WithLogger(logging.Discard())}, opts...)
	return NewClient(ts.URL, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListDoctors_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/doctor", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"doctors":[{"id":7,"name":"Dr. Smith","specialty":"Cardiologist","email":"s@x.io","availableTimes":["09:00-10:00"]}]}`))
	})

	doctors, err := client.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, int64(7), doctors[0].ID)
	assert.Equal(t, []string{"09:00-10:00"}, doctors[0].AvailableTimes)
}

func TestListDoctors_FailureReturnsEmptyListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	doctors, err := client.ListDoctors(context.Background())
	require.Error(t, err)
	assert.NotNil(t, doctors)
	assert.Empty(t, doctors)
}

func TestListDoctors_NullDoctorsIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"doctors":null}`))
	})

	doctors, err := client.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doctors)
}

func TestFilterDoctors_AllAbsentEqualsListAll(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	})

	_, err := client.ListDoctors(context.Background())
	require.NoError(t, err)
	_, err = client.FilterDoctors(context.Background(), DoctorFilter{})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, paths[0], paths[1])
}

func TestFilterDoctors_SentinelEncodesAbsentDimensions(t *testing.T) {
	var uri string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		uri = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	})

	_, err := client.FilterDoctors(context.Background(), DoctorFilter{Name: String("Smith")})
	require.NoError(t, err)
	assert.Equal(t, "/doctor/filter/Smith/null/null", uri)
}

func TestFilterDoctors_EscapesFreeText(t *testing.T) {
	var uri string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		uri = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	})

	_, err := client.FilterDoctors(context.Background(), DoctorFilter{
		Name:      String("O'Neil / Jr"),
		Time:      String("09:00-10:00"),
		Specialty: String("ENT"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/doctor/filter/O%27Neil%20%2F%20Jr/09:00-10:00/ENT", uri)
}

func TestFilterDoctors_RejectsSentinelCollisionWithoutCalling(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	for _, f := range []DoctorFilter{
		{Name: String("null")},
		{Specialty: String("")},
	} {
		doctors, err := client.FilterDoctors(context.Background(), f)
		assert.ErrorIs(t, err, ErrAmbiguousFilter)
		assert.NotNil(t, doctors)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFilterDoctors_QueryEncodingKeepsTrueAbsence(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	}, WithFilterEncoding(EncodeQuery))

	_, err := client.FilterDoctors(context.Background(), DoctorFilter{Name: String("null"), Time: String("")})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/doctor/filter", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "null", q.Get("name"))
	assert.True(t, q.Has("time"))
	assert.False(t, q.Has("specialty"))
}

func TestDeleteDoctor_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/doctor/7/abc", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfull with id: 7"})
	})

	res := client.DeleteDoctor(context.Background(), "abc", 7)
	assert.True(t, res.Success)
	assert.Equal(t, "Doctor deleted successfull with id: 7", res.Message)
}

func TestDeleteDoctor_UnauthorizedMarksExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
	})

	res := client.DeleteDoctor(context.Background(), "abc", 7)
	assert.False(t, res.Success)
	assert.True(t, res.Expired)
	assert.Equal(t, "Invalid or expired token", res.Message)
}

func TestMutation_TransportErrorFolded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()
	client := NewClient(ts.URL, WithLogger(logging.Discard()))

	res := client.AddDoctor(context.Background(), "abc", DoctorInput{Name: "Dr. New"})
	assert.False(t, res.Success)
	assert.Zero(t, res.Status)
	assert.Equal(t, MsgNetwork, res.Message)
}

func TestMutation_GenericMessageFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	res := client.AddDoctor(context.Background(), "abc", DoctorInput{Name: "Dr. New"})
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, MsgGeneric, res.Message)
}

func TestUpdateDoctor_UsesPatchAndDropsPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/doctor/abc", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var in map[string]any
		require.NoError(t, json.Unmarshal(body, &in))
		assert.EqualValues(t, 7, in["id"])
		assert.NotContains(t, in, "password")
		writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor updated"})
	})

	res := client.UpdateDoctor(context.Background(), "abc", DoctorInput{ID: 7, Name: "Dr. Smith", Password: "secret"})
	assert.True(t, res.Success)
}

func TestUpdateDoctor_RequiresID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	res := client.UpdateDoctor(context.Background(), "abc", DoctorInput{Name: "x"})
	assert.False(t, res.Success)
}

func TestLogin_ReturnsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin", r.URL.Path)
		var creds AdminCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)
		writeJSON(w, http.StatusOK, map[string]string{"token": "jwt-token"})
	})

	res := client.AdminLogin(context.Background(), AdminCredentials{Username: "admin", Password: "pw"})
	assert.True(t, res.Success)
	assert.Equal(t, "jwt-token", res.Token)
}

func TestLogin_FailureFallsBackToInvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := client.PatientLogin(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	assert.False(t, res.Success)
	assert.False(t, res.Expired)
	assert.Equal(t, MsgInvalidCredentials, res.Message)
}

func TestLogin_MissingTokenIsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	res := client.DoctorLogin(context.Background(), Credentials{Email: "d@x.io", Password: "x"})
	assert.False(t, res.Success)
}

func TestPatientProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patient/tok", r.URL.Path)
		_, _ = w.Write([]byte(`{"patient":{"id":3,"name":"Pat","email":"p@x.io"}}`))
	})

	p, err := client.PatientProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}

func TestPatientProfile_RejectedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	p, err := client.PatientProfile(context.Background(), "tok")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAppointmentsByDate(t *testing.T) {
	var uris []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"appointments":[{"id":1,"doctorId":2,"patientId":3,"patientName":"Ann Lee","appointmentTime":"2024-03-01T09:00:00","status":0}]}`))
	})

	appts, err := client.AppointmentsByDate(context.Background(), "tok", "2024-03-01", nil)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), appts[0].AppointmentTime.Time)

	_, err = client.AppointmentsByDate(context.Background(), "tok", "2024-03-01", String("Ann Lee"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/appointments/2024-03-01/null/tok", "/appointments/2024-03-01/Ann%20Lee/tok"}, uris)
}

func TestAppointmentsByDate_InvalidDateNoCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	appts, err := client.AppointmentsByDate(context.Background(), "tok", "03/01/2024", nil)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.NotNil(t, appts)
}

func TestUpcomingAppointments_PatientNameOnlyWhenPresent(t *testing.T) {
	var reqs []*http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reqs = append(reqs, r)
		_, _ = w.Write([]byte(`{"appointments":[]}`))
	})

	_, err := client.UpcomingAppointments(context.Background(), "tok", nil)
	require.NoError(t, err)
	_, err = client.UpcomingAppointments(context.Background(), "tok", String("Ann Lee"))
	require.NoError(t, err)

	require.Len(t, reqs, 2)
	assert.Equal(t, "/appointments/upcoming/tok", reqs[0].URL.Path)
	assert.False(t, reqs[0].URL.Query().Has("patientName"))
	assert.Equal(t, "Ann Lee", reqs[1].URL.Query().Get("patientName"))
}

func TestBookAppointment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments/tok", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2024-03-01T09:00:00", in["appointmentTime"])
		assert.NotContains(t, in, "id")
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Appointment Booked Successfully"})
	})

	at, err := ParseLocalDateTime("2024-03-01T09:00")
	require.NoError(t, err)
	res := client.BookAppointment(context.Background(), "tok", BookingRequest{
		ID:              99,
		Doctor:          Ref{ID: 7},
		Patient:         Ref{ID: 3},
		AppointmentTime: at,
	})
	assert.True(t, res.Success)
	assert.Equal(t, "Appointment Booked Successfully", res.Message)
}

func TestUpdateAppointment_UsesPutWithID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/appointments/tok", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.EqualValues(t, 42, in["id"])
		assert.Equal(t, "2024-03-02T10:00:00", in["appointmentTime"])
		writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment updated"})
	})

	at, err := ParseLocalDateTime("2024-03-02T10:00")
	require.NoError(t, err)
	res := client.UpdateAppointment(context.Background(), "tok", BookingRequest{
		ID:              42,
		Doctor:          Ref{ID: 7},
		Patient:         Ref{ID: 3},
		AppointmentTime: at,
	})
	assert.True(t, res.Success)
	assert.Equal(t, "Appointment updated", res.Message)
}

func TestUpdateAppointment_RequiresID(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	res := client.UpdateAppointment(context.Background(), "tok", BookingRequest{Doctor: Ref{ID: 7}})
	assert.False(t, res.Success)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestReports(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/daily/2024-03-01/tok":
			_, _ = w.Write([]byte(`{"rows":[{"doctorName":"Dr. Smith","appointmentTime":"2024-03-01T09:00:00","status":1,"patientName":"Ann","patientPhone":"555"}]}`))
		case "/reports/top-doctor/month/3/2024/tok", "/reports/top-doctor/year/2024/tok":
			_, _ = w.Write([]byte(`{"rows":[{"doctorId":7,"doctorName":"Dr. Smith","patientsSeen":12}]}`))
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad path " + r.URL.Path})
		}
	})

	ctx := context.Background()
	daily, err := client.DailyReport(ctx, "tok", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, StatusCompleted, daily[0].Status)

	month, err := client.TopDoctorByMonth(ctx, "tok", 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(12), month[0].PatientsSeen)

	year, err := client.TopDoctorByYear(ctx, "tok", 2024)
	require.NoError(t, err)
	assert.Len(t, year, 1)

	_, err = client.TopDoctorByMonth(ctx, "tok", 13, 2024)
	assert.Error(t, err)
}

func TestMessageFrom(t *testing.T) {
	assert.Equal(t, "", MessageFrom(nil, "x"))
	assert.Equal(t, "bad date", MessageFrom(&APIError{Status: 400, Message: "bad date"}, "x"))
	assert.Equal(t, "x", MessageFrom(&APIError{Status: 500}, "x"))
	assert.Equal(t, MsgNetwork, MessageFrom(errors.Join(ErrTransport), "x"))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("ab€", 3))

	body := "a" + strings.Repeat("é", 200)
	cut := truncate(body, maxLoggedBody)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, maxLoggedBody-1)
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	}, WithMetrics(metrics.NewGatewayMetrics(reg)))

	_, err := client.ListDoctors(context.Background())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "clinic_gateway_requests_total" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"doctors":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doctors, err := client.ListDoctors(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotNil(t, doctors)
}
