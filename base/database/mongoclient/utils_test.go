package mongoclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type patchableListing struct {
		Active    *bool      `bson:"active,omitempty"`
		Buyer     *string    `bson:"buyer,omitempty"`
		SoldAt    *time.Time `bson:"soldAt,omitempty"`
		Note      string     `bson:"note"`
		Reference string     `bson:"ref"`
	}

	soldAt := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	patchable := &patchableListing{
		Active:    ptr.Bool(false),
		SoldAt:    &soldAt,
		Reference: "sale-1",
	}

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			// pointer to a zero value is still patched
			"active": false,
			"soldAt": soldAt,
			// nil pointer and empty note are skipped
			"ref": "sale-1",
		},
		updater,
	)
}

func TestMakeBsonMRejectsNonStruct(t *testing.T) {
	_, err := MakeBsonM(map[string]int{"a": 1})
	assert.Equal(t, ErrNotStruct, err)
}
