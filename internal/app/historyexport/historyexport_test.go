package historyexport_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/app/historyexport"
	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/storage/storagemock"
)

func TestServiceRun(t *testing.T) {
	success := model.Generation{ID: "g1", Status: model.GenerationStatusSuccess, Artifact: "<html>g1</html>"}
	failed := model.Generation{ID: "g2", Status: model.GenerationStatusFailed, Error: "Failed to generate website: HTTP error status: 500"}

	tests := map[string]struct {
		mock     func(m *storagemock.MockRepository)
		req      historyexport.Request
		expOut   string
		expID    string
		expErr   bool
		expErrIs error
	}{
		"Exporting a successful generation by ID should export its website.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetGeneration", mock.Anything, "g1").Once().Return(&success, nil)
			},
			req:    historyexport.Request{ID: "g1"},
			expOut: "<html>g1</html>",
			expID:  "g1",
		},

		"Exporting without ID should export the latest successful generation.": {
			mock: func(m *storagemock.MockRepository) {
				exp := storage.ListGenerationsOpts{Status: model.GenerationStatusSuccess, Limit: 1}
				m.On("ListGenerations", mock.Anything, exp).Once().Return([]model.Generation{success}, nil)
			},
			expOut: "<html>g1</html>",
			expID:  "g1",
		},

		"Exporting without ID and no successful generations should fail.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListGenerations", mock.Anything, mock.Anything).Once().Return([]model.Generation{}, nil)
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},

		"Exporting a failed generation should fail.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetGeneration", mock.Anything, "g2").Once().Return(&failed, nil)
			},
			req:      historyexport.Request{ID: "g2"},
			expErr:   true,
			expErrIs: model.ErrNoArtifact,
		},

		"Exporting a missing generation should fail.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetGeneration", mock.Anything, "g3").Once().Return(nil, model.ErrNotFound)
			},
			req:      historyexport.Request{ID: "g3"},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},

		"A repository error should fail.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetGeneration", mock.Anything, "g1").Once().Return(nil, errors.New("something"))
			},
			req:    historyexport.Request{ID: "g1"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mrepo := storagemock.NewMockRepository(t)
			test.mock(mrepo)
			var out bytes.Buffer

			svc, err := historyexport.NewService(historyexport.ServiceConfig{
				Repository: mrepo,
				Exporter:   export.NewWriterExporter(&out),
			})
			require.NoError(t, err)

			res, err := svc.Run(context.Background(), test.req)
			if test.expErr {
				assert.Error(t, err)
				if test.expErrIs != nil {
					assert.ErrorIs(t, err, test.expErrIs)
				}
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expID, res.Generation.ID)
			assert.Equal(t, "-", res.Location)
			assert.Equal(t, test.expOut, out.String())
		})
	}
}
