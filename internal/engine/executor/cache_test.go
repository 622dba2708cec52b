package executor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports/mocks"
	"go.trai.ch/bmake/internal/engine/executor"
	"go.trai.ch/bmake/internal/engine/expander"
	"go.uber.org/mock/gomock"
)

type cacheMocks struct {
	runner *mocks.MockCommandRunner
	store  *mocks.MockRunStore
	logger *mocks.MockLogger
}

func newCachingExecutor(t *testing.T) (*executor.Executor, cacheMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := cacheMocks{
		runner: mocks.NewMockCommandRunner(ctrl),
		store:  mocks.NewMockRunStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	exec := executor.New(m.runner, expander.New(nil, ""), m.store, nil, nil, nil, m.logger)
	return exec, m
}

var cacheOpts = executor.Options{UseCache: true, Root: root}

func TestExecute_CacheRecordsAndSkips(t *testing.T) {
	exec, m := newCachingExecutor(t)
	script, p := plan(t, "OUT = bin\nbuild:\n    go build -o $(OUT)\n", "build")

	var saved domain.RunRecord
	m.store.EXPECT().Get(root, "build").Return(nil, nil)
	m.runner.EXPECT().Run(gomock.Any(), "go build -o bin", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, rec domain.RunRecord) error {
		saved = rec
		return nil
	})

	first, err := exec.Execute(context.Background(), script, p, cacheOpts)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, first.Target("build").Status)
	assert.Equal(t, "build", saved.Target)
	assert.Equal(t, []string{"go build -o bin"}, saved.Commands)
	assert.Equal(t, first.RunID, saved.RunID)
	assert.Len(t, saved.Fingerprint, 16)

	m.store.EXPECT().Get(root, "build").Return(&saved, nil)

	second, err := exec.Execute(context.Background(), script, p, cacheOpts)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCached, second.Target("build").Status)
	assert.Equal(t, saved.Fingerprint, second.Target("build").Fingerprint)
	assert.Empty(t, second.Target("build").Commands)
}

func TestExecute_CacheMissWhenExpansionChanges(t *testing.T) {
	exec, m := newCachingExecutor(t)
	before, p := plan(t, "OUT = bin\nbuild:\n    go build -o $(OUT)\n", "build")
	after, _ := plan(t, "OUT = dist\nbuild:\n    go build -o $(OUT)\n", "build")

	var saved domain.RunRecord
	m.store.EXPECT().Get(root, "build").Return(nil, nil)
	m.runner.EXPECT().Run(gomock.Any(), "go build -o bin", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, rec domain.RunRecord) error {
		saved = rec
		return nil
	})
	_, err := exec.Execute(context.Background(), before, p, cacheOpts)
	require.NoError(t, err)

	m.store.EXPECT().Get(root, "build").Return(&saved, nil)
	m.runner.EXPECT().Run(gomock.Any(), "go build -o dist", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	m.store.EXPECT().Put(root, gomock.Any()).Return(nil)

	report, err := exec.Execute(context.Background(), after, p, cacheOpts)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Target("build").Status)
	assert.NotEqual(t, saved.Fingerprint, report.Target("build").Fingerprint)
}

func TestExecute_DependencyFingerprintPropagates(t *testing.T) {
	exec, m := newCachingExecutor(t)
	script, p := plan(t, "gen:\n    echo gen\nbuild: gen\n    echo build\n", "build")

	prints := map[string]string{}
	m.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil).Times(2)
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).Times(2)
	m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, rec domain.RunRecord) error {
		prints[rec.Target] = rec.Fingerprint
		return nil
	}).Times(2)

	_, err := exec.Execute(context.Background(), script, p, cacheOpts)
	require.NoError(t, err)

	// build is unchanged, but its dependency now runs a different command.
	changed, _ := plan(t, "gen:\n    echo gen2\nbuild: gen\n    echo build\n", "build")
	m.store.EXPECT().Get(root, "gen").Return(&domain.RunRecord{Fingerprint: prints["gen"]}, nil)
	m.store.EXPECT().Get(root, "build").Return(&domain.RunRecord{Fingerprint: prints["build"]}, nil)
	gomock.InOrder(
		m.runner.EXPECT().Run(gomock.Any(), "echo gen2", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil),
		m.runner.EXPECT().Run(gomock.Any(), "echo build", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil),
	)
	m.store.EXPECT().Put(root, gomock.Any()).Return(nil).Times(2)

	report, err := exec.Execute(context.Background(), changed, p, cacheOpts)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Target("build").Status)
	assert.NotEqual(t, prints["build"], report.Target("build").Fingerprint)
}

func TestExecute_CacheStoreErrorsAreWarnings(t *testing.T) {
	exec, m := newCachingExecutor(t)
	script, p := plan(t, "build:\n    echo build\n", "build")

	m.store.EXPECT().Get(root, "build").Return(nil, errors.New("disk on fire"))
	m.runner.EXPECT().Run(gomock.Any(), "echo build", gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	m.store.EXPECT().Put(root, gomock.Any()).Return(errors.New("read-only"))
	m.logger.EXPECT().Warn(gomock.Any()).Times(2)

	report, err := exec.Execute(context.Background(), script, p, cacheOpts)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Target("build").Status)
}

func TestExecute_FailedTargetsAreNotRecorded(t *testing.T) {
	exec, m := newCachingExecutor(t)
	script, p := plan(t, "build:\n    false\n", "build")

	m.store.EXPECT().Get(root, "build").Return(nil, nil)
	m.runner.EXPECT().Run(gomock.Any(), "false", gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)

	_, err := exec.Execute(context.Background(), script, p, cacheOpts)

	require.ErrorIs(t, err, domain.ErrCommandFailed)
}
