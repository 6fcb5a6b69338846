package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "evaluations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	eval, result, _ := sampleEvaluation()

	require.NoError(t, store.SaveEvaluation(eval, result))

	loadedEval, loadedResult, err := store.GetEvaluation(eval.ID)
	require.NoError(t, err)
	require.NotNil(t, loadedEval)
	require.NotNil(t, loadedResult)

	assert.Equal(t, eval.ID, loadedEval.ID)
	assert.Equal(t, eval.Params, loadedEval.Params)
	assert.Equal(t, eval.TotalGames, loadedEval.TotalGames)
	assert.Equal(t, eval.Workers, loadedEval.Workers)
	assert.Equal(t, eval.RoundsPerWorker, loadedEval.RoundsPerWorker)
	assert.Equal(t, eval.TimeControl, loadedEval.TimeControl)
	require.NotNil(t, loadedEval.CompletedAt)
	assert.True(t, eval.CompletedAt.Equal(*loadedEval.CompletedAt))

	assert.Equal(t, result.Wins, loadedResult.Wins)
	assert.Equal(t, result.Losses, loadedResult.Losses)
	assert.Equal(t, result.Draws, loadedResult.Draws)
	assert.Equal(t, result.Games, loadedResult.Games)
	assert.Equal(t, result.Score, loadedResult.Score)
	assert.Equal(t, result.ScoreError, loadedResult.ScoreError)
	assert.Equal(t, result.EloDelta, loadedResult.EloDelta)
	assert.Equal(t, result.EloError, loadedResult.EloError)
	assert.Equal(t, result.LOS, loadedResult.LOS)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	eval, result, err := store.GetEvaluation("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, eval)
	assert.Nil(t, result)
}

func TestStore_SaveGeneratesID(t *testing.T) {
	store := newTestStore(t)
	eval, result, _ := sampleEvaluation()
	eval.ID = ""

	require.NoError(t, store.SaveEvaluation(eval, result))
	assert.NotEmpty(t, eval.ID, "SaveEvaluation should assign an ID when missing")

	loaded, _, err := store.GetEvaluation(eval.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		eval, result, _ := sampleEvaluation()
		eval.ID = ""
		eval.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.SaveEvaluation(eval, result))
	}

	evals, results, err := store.ListEvaluations(0)
	require.NoError(t, err)
	require.Len(t, evals, 3)
	require.Len(t, results, 3)

	// Reverse chronological order.
	for i := 1; i < len(evals); i++ {
		assert.True(t, !evals[i-1].CreatedAt.Before(evals[i].CreatedAt),
			"evaluations should be newest first")
	}
}

func TestStore_ListLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		eval, result, _ := sampleEvaluation()
		eval.ID = ""
		require.NoError(t, store.SaveEvaluation(eval, result))
	}

	evals, _, err := store.ListEvaluations(2)
	require.NoError(t, err)
	assert.Len(t, evals, 2)
}

func TestStore_NilCompletedAt(t *testing.T) {
	store := newTestStore(t)
	eval, result, _ := sampleEvaluation()
	eval.CompletedAt = nil

	require.NoError(t, store.SaveEvaluation(eval, result))

	loaded, _, err := store.GetEvaluation(eval.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Nil(t, loaded.CompletedAt)
}
