package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestLoadAbsentFile(t *testing.T) {
	c := NewCollection[record](filepath.Join(t.TempDir(), "missing.json"))

	records, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	c := NewCollection[record](filepath.Join(t.TempDir(), "records.json"))

	in := []record{{Name: "a", N: 1}, {Name: "b", N: 2}}
	require.NoError(t, c.Save(in))

	out, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveWritesHumanReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	c := NewCollection[record](path)
	require.NoError(t, c.Save([]record{{Name: "a"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewCollection[record](path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestUpdateAbortsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	c := NewCollection[record](path)
	require.NoError(t, c.Save([]record{{Name: "keep"}}))

	err := c.Update(func(records []record) ([]record, error) {
		return nil, os.ErrPermission
	})
	require.Error(t, err)

	out, err := c.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].Name)
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	c := NewCollection[record](filepath.Join(t.TempDir(), "records.json"))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Update(func(records []record) ([]record, error) {
				return append(records, record{N: i}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	out, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, out, n)
}
