package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer simulates the enquiry API for session tests.
type fakeServer struct {
	detail EnquiryDetail

	failChangeStatus bool
	failUpdate       bool

	changeStatusCalls atomic.Int64
	updateCalls       atomic.Int64
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /enquiries/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, f.detail)
	})
	mux.HandleFunc("POST /enquiries/change-status", func(w http.ResponseWriter, r *http.Request) {
		f.changeStatusCalls.Add(1)
		if f.failChangeStatus {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "stage not permitted for role")
			return
		}
		var req struct {
			EnquiryID string `json:"enquiry_id"`
			NewStatus Stage  `json:"new_status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.detail.Stage = req.NewStatus
		writeData(w, http.StatusOK, f.detail.Enquiry)
	})
	mux.HandleFunc("PUT /enquiries/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.updateCalls.Add(1)
		if f.failUpdate {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "demo status not editable")
			return
		}
		var req EnquiryUpdate
		_ = json.NewDecoder(r.Body).Decode(&req)
		applyUpdate(&f.detail.Enquiry, req)
		writeData(w, http.StatusOK, f.detail.Enquiry)
	})
	return mux
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func counsellorDetail() EnquiryDetail {
	return EnquiryDetail{
		Enquiry: Enquiry{
			ID:         "enq-1",
			Name:       "Asha Nair",
			Email:      "asha@example.com",
			Phone:      "9876543210",
			Stage:      StageEnquiry,
			StageIndex: 0,
			DemoStatus: DemoNotStarted,
		},
		Pipeline: Pipeline{
			Stages:             []Stage{StageEnquiry, StageDemo, StageQualifiedDemo, StageClass, StageClassQualified, StagePlacement},
			VisibleStages:      []Stage{StageEnquiry, StageDemo, StageQualifiedDemo},
			DemoStatusEditable: true,
			BillingAuthorized:  false,
		},
	}
}

func newSession(t *testing.T, srv *fakeServer) *EnquirySession {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	session, err := NewEnquirySession(context.Background(), NewClient(ts.URL, "test-token"), "enq-1")
	require.NoError(t, err)
	return session
}

func TestEnquirySession_ChangeStage(t *testing.T) {
	t.Run("Should commit the server copy on a successful stage write", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		require.NoError(t, session.ChangeStage(context.Background(), StageDemo))

		snap := session.Snapshot()
		assert.Equal(t, StageDemo, snap.Stage)
		assert.Equal(t, int64(1), srv.changeStatusCalls.Load())
	})

	t.Run("Should roll back to the snapshot when the stage write fails", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail(), failChangeStatus: true}
		session := newSession(t, srv)

		err := session.ChangeStage(context.Background(), StageDemo)
		require.Error(t, err)
		assert.True(t, IsForbidden(err))

		snap := session.Snapshot()
		assert.Equal(t, StageEnquiry, snap.Stage, "stage must revert after a failed write")
		assert.Equal(t, 0, snap.StageIndex)
	})

	t.Run("Should not call the server when setting the current stage", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		require.NoError(t, session.ChangeStage(context.Background(), StageEnquiry))
		assert.Equal(t, int64(0), srv.changeStatusCalls.Load())
	})

	t.Run("Should reject a stage outside the role's visible window", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		err := session.ChangeStage(context.Background(), StagePlacement)
		require.Error(t, err)
		assert.Equal(t, int64(0), srv.changeStatusCalls.Load(), "no remote write for an unselectable stage")
	})
}

func TestEnquirySession_ChangeStageWithDemo(t *testing.T) {
	t.Run("Should write the demo status only after the stage commit", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		require.NoError(t, session.ChangeStageWithDemo(context.Background(), StageDemo, DemoInProgress))

		snap := session.Snapshot()
		assert.Equal(t, StageDemo, snap.Stage)
		assert.Equal(t, DemoInProgress, snap.DemoStatus)
		assert.Equal(t, int64(1), srv.changeStatusCalls.Load())
		assert.Equal(t, int64(1), srv.updateCalls.Load())
	})

	t.Run("Should skip the demo write entirely when the stage write fails", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail(), failChangeStatus: true}
		session := newSession(t, srv)

		err := session.ChangeStageWithDemo(context.Background(), StageDemo, DemoInProgress)
		require.Error(t, err)

		snap := session.Snapshot()
		assert.Equal(t, StageEnquiry, snap.Stage)
		assert.Equal(t, DemoNotStarted, snap.DemoStatus)
		assert.Equal(t, int64(0), srv.updateCalls.Load(), "a dependent write must not run after a failed stage write")
	})

	t.Run("Should keep the committed stage when only the demo write fails", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail(), failUpdate: true}
		session := newSession(t, srv)

		err := session.ChangeStageWithDemo(context.Background(), StageDemo, DemoInProgress)
		require.Error(t, err)

		snap := session.Snapshot()
		assert.Equal(t, StageDemo, snap.Stage, "the committed stage write must survive")
		assert.Equal(t, DemoNotStarted, snap.DemoStatus, "the failed demo write must roll back")
	})
}

func TestEnquirySession_SetDemoStatus(t *testing.T) {
	t.Run("Should roll back the demo status when the write fails", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail(), failUpdate: true}
		session := newSession(t, srv)

		err := session.SetDemoStatus(context.Background(), DemoCompleted)
		require.Error(t, err)
		assert.Equal(t, DemoNotStarted, session.Snapshot().DemoStatus)
	})

	t.Run("Should refuse when the pipeline marks demo status read-only", func(t *testing.T) {
		detail := counsellorDetail()
		detail.Pipeline.DemoStatusEditable = false
		srv := &fakeServer{detail: detail}
		session := newSession(t, srv)

		err := session.SetDemoStatus(context.Background(), DemoCompleted)
		require.Error(t, err)
		assert.Equal(t, int64(0), srv.updateCalls.Load())
	})
}

func TestEnquirySession_UpdateFields(t *testing.T) {
	t.Run("Should restore the full snapshot on a failed edit", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail(), failUpdate: true}
		session := newSession(t, srv)

		name := "Renamed"
		phone := "0000000000"
		err := session.UpdateFields(context.Background(), EnquiryUpdate{Name: &name, Phone: &phone})
		require.Error(t, err)

		snap := session.Snapshot()
		assert.Equal(t, "Asha Nair", snap.Name)
		assert.Equal(t, "9876543210", snap.Phone)
	})

	t.Run("Should adopt the server copy on a successful edit", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		name := "Renamed"
		require.NoError(t, session.UpdateFields(context.Background(), EnquiryUpdate{Name: &name}))
		assert.Equal(t, "Renamed", session.Snapshot().Name)
	})
}

func TestEnquirySession_StageOptions(t *testing.T) {
	t.Run("Should list the visible stages as selectable", func(t *testing.T) {
		srv := &fakeServer{detail: counsellorDetail()}
		session := newSession(t, srv)

		options := session.StageOptions()
		require.Len(t, options, 3)
		for _, opt := range options {
			assert.True(t, opt.Selectable)
		}
		assert.True(t, options[0].Current)
	})

	t.Run("Should inject an out-of-window current stage as non-selectable", func(t *testing.T) {
		detail := counsellorDetail()
		detail.Stage = StagePlacement
		detail.StageIndex = 5
		srv := &fakeServer{detail: detail}
		session := newSession(t, srv)

		options := session.StageOptions()
		require.Len(t, options, 4)

		last := options[len(options)-1]
		assert.Equal(t, StagePlacement, last.Stage)
		assert.True(t, last.Current)
		assert.False(t, last.Selectable)
	})
}
