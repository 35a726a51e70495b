package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("allocations").
		Where(squirrel.Eq{"resource_id": int64(7)}).
		Where(squirrel.Lt{"start_at": "b"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM allocations WHERE resource_id = $1 AND start_at < $2", query)
	assert.Equal(t, []interface{}{int64(7), "b"}, args)
}

func TestUpdateUsesDollarPlaceholders(t *testing.T) {
	query, _, err := Update("requests").
		Set("status", "approved").
		Where(squirrel.Eq{"id": int64(1), "version": 3}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE requests SET status = $1 WHERE id = $2 AND version = $3", query)
}
