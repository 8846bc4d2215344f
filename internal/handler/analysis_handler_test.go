package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type fakeAnalysisSrv struct {
	conflicts    *dto.ConflictsResponse
	conflictsErr error
	utilization  *dto.UtilizationResponse
	lastOwner    string
}

func (f *fakeAnalysisSrv) Conflicts(_ context.Context, ownerID string) (*dto.ConflictsResponse, error) {
	f.lastOwner = ownerID
	return f.conflicts, f.conflictsErr
}

func (f *fakeAnalysisSrv) Utilization(_ context.Context, ownerID string) (*dto.UtilizationResponse, error) {
	f.lastOwner = ownerID
	return f.utilization, nil
}

func TestAnalysisHandlerConflicts(t *testing.T) {
	srv := &fakeAnalysisSrv{
		conflicts: &dto.ConflictsResponse{
			Groups: []schedule.ConflictGroup{{DayOfWeek: 1}},
			Count:  1,
		},
	}
	handler := NewAnalysisHandler(srv)

	rec := httptest.NewRecorder()
	c := authedContext(t, rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analysis/conflicts", nil)

	handler.Conflicts(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", srv.lastOwner)

	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var payload dto.ConflictsResponse
	assert.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 1, payload.Count)
}

func TestAnalysisHandlerConflictsError(t *testing.T) {
	handler := NewAnalysisHandler(&fakeAnalysisSrv{conflictsErr: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c := authedContext(t, rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analysis/conflicts", nil)

	handler.Conflicts(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalysisHandlerUtilization(t *testing.T) {
	srv := &fakeAnalysisSrv{
		utilization: &dto.UtilizationResponse{
			Report: schedule.UtilizationReport{ScheduledMinutes: 90, AvailableMinutes: 180, UtilizationRate: 0.5},
		},
	}
	handler := NewAnalysisHandler(srv)

	rec := httptest.NewRecorder()
	c := authedContext(t, rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analysis/utilization", nil)

	handler.Utilization(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var payload dto.UtilizationResponse
	assert.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.InDelta(t, 0.5, payload.Report.UtilizationRate, 1e-9)
}
