package mongo

import (
	"testing"

	"roombook/internal/bookings/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverEveryStore(t *testing.T) {
	var names []string
	for _, c := range Collections() {
		names = append(names, c.Name)
		schema, ok := c.Validator["$jsonSchema"].(bson.M)
		require.True(t, ok, c.Name)
		assert.Equal(t, "object", schema["bsonType"], c.Name)
	}

	assert.Equal(t, []string{
		repository.BookingsCollection,
		repository.BlockedDatesCollection,
		repository.TransactionsCollection,
		repository.LocksCollection,
	}, names)
}

func TestLocksIndexes_ExpireImmediately(t *testing.T) {
	require.Len(t, LocksIndexes, 1)
	require.NotNil(t, LocksIndexes[0].Options)
	require.NotNil(t, LocksIndexes[0].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *LocksIndexes[0].Options.ExpireAfterSeconds)
}
