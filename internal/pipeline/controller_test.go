package pipeline

import (
	"context"
	"sync"
	"testing"

	"schooldash/domain/dataset"
	"schooldash/domain/school"
	"schooldash/internal"
	"schooldash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Load(ctx context.Context) (dataset.RawTables, error) {
	args := m.Called(ctx)
	return args.Get(0).(dataset.RawTables), args.Error(1)
}

func newTestController(t *testing.T, raw dataset.RawTables, capacity int) (*Controller, *MockTableSource) {
	t.Helper()
	source := &MockTableSource{}
	source.On("Load", mock.Anything).Return(raw, nil)
	return NewController(source, capacity, internal.NewNopLogger()), source
}

func TestController_MemoizesIdenticalControls(t *testing.T) {
	ctrl, source := newTestController(t, abTables(), 4)
	ctx := context.Background()

	first, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	assert.False(t, first.RunID.IsEmpty())
	assert.False(t, first.Checksum.IsEmpty())
	assert.False(t, first.GeneratedAt.IsZero())

	second, err := ctrl.Run(ctx, school.Controls{Visualization: school.VizGeneralPopulation})
	require.NoError(t, err)
	assert.Same(t, first, second, "an empty visualization means General Population")

	source.AssertNumberOfCalls(t, "Load", 2)
}

func TestController_SelectionOrderDoesNotMatter(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 4)
	ctx := context.Background()

	ab, err := ctrl.Run(ctx, school.Controls{SchoolsSet: true, Schools: []string{"A", "B"}})
	require.NoError(t, err)
	ba, err := ctrl.Run(ctx, school.Controls{SchoolsSet: true, Schools: []string{"B", "A", "B"}})
	require.NoError(t, err)
	assert.Same(t, ab, ba)
}

func TestController_DistinctControlsRunAgain(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 4)
	ctx := context.Background()

	all, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	large, err := ctrl.Run(ctx, school.Controls{Size: &school.SizeRange{Min: 500, Max: 1000}})
	require.NoError(t, err)

	assert.NotSame(t, all, large)
	assert.NotEqual(t, all.RunID, large.RunID)
	assert.Equal(t, all.Checksum, large.Checksum, "same inputs")
	assert.Len(t, large.Joined, 1)
}

func TestController_ChangedInputsInvalidate(t *testing.T) {
	first := abTables()
	changed := abTables()
	changed.Frpl = frplTable("A", "10%", "B", "90%")

	source := &MockTableSource{}
	source.On("Load", mock.Anything).Return(first, nil).Once()
	source.On("Load", mock.Anything).Return(changed, nil).Once()
	ctrl := NewController(source, 4, internal.NewNopLogger())

	before, err := ctrl.Run(context.Background(), school.Controls{})
	require.NoError(t, err)
	after, err := ctrl.Run(context.Background(), school.Controls{})
	require.NoError(t, err)

	assert.NotEqual(t, before.Checksum, after.Checksum)
	require.NotNil(t, after.Joined[0].HighPoverty)
	assert.False(t, *after.Joined[0].HighPoverty)
	source.AssertExpectations(t)
}

func TestController_ZeroCapacityDisablesMemo(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 0)
	ctx := context.Background()

	first, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	second, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Population, second.Population)
}

func TestController_EvictsOldest(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 1)
	ctx := context.Background()

	first, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	_, err = ctrl.Run(ctx, school.Controls{Visualization: school.VizHistograms})
	require.NoError(t, err)
	again, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)

	assert.NotSame(t, first, again)
}

func TestController_Forget(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 4)
	ctx := context.Background()

	first, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	ctrl.Forget()
	second, err := ctrl.Run(ctx, school.Controls{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestController_PropagatesErrors(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		source := &MockTableSource{}
		source.On("Load", mock.Anything).Return(dataset.RawTables{}, errors.SourceUnavailable("frpl.csv", assert.AnError))
		ctrl := NewController(source, 4, internal.NewNopLogger())

		res, err := ctrl.Run(context.Background(), school.Controls{})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
	})

	t.Run("data quality", func(t *testing.T) {
		raw := abTables()
		raw.Frpl = frplTable("A", "eighty")
		ctrl, _ := newTestController(t, raw, 4)

		res, err := ctrl.Run(context.Background(), school.Controls{})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, errors.CodeDataQuality, errors.GetCode(err))
	})
}

func TestController_ConcurrentCallers(t *testing.T) {
	ctrl, _ := newTestController(t, abTables(), 4)

	const callers = 8
	results := make([]*Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := ctrl.Run(context.Background(), school.Controls{})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, results[0].Population, res.Population)
	}
}
