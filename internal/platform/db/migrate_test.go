package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSortsAndSkipsApplied(t *testing.T) {
	files := fstest.MapFS{
		"0002_b.sql":  {Data: []byte("select 2")},
		"0001_a.sql":  {Data: []byte("select 1")},
		"0003_c.sql":  {Data: []byte("select 3")},
		"README.md":   {Data: []byte("docs")},
		"nested/x.sql": {Data: []byte("select 4")},
	}

	names, err := Pending(files, map[string]bool{"0002_b.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0003_c.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	m := NewMigrator(nil, nil)
	names, err := Pending(m.files, nil)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}
