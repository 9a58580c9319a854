package validx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/aussiebroadwan/castrack/pkg/validx"
	"github.com/stretchr/testify/require"
)

type input struct {
	ID    string    `json:"id" validate:"required,ulid"`
	Tags  []string  `json:"tags" validate:"unique,dive,oneof=a b"`
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
	Skip  string    `json:"-"`
}

func TestValidateStruct(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		in := input{ID: idx.New().String(), Tags: []string{"a", "b"}, Start: now, End: now.Add(time.Hour)}
		require.NoError(t, validx.ValidateStruct(in))
	})

	t.Run("field names follow json tags", func(t *testing.T) {
		in := input{ID: "nope", Tags: []string{"a", "a", "c"}, Start: now, End: now.Add(-time.Hour)}

		err := validx.ValidateStruct(in)
		var verrs validx.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Equal(t, "must be a valid id", verrs["id"])
		require.Equal(t, "must not contain duplicates", verrs["tags"])
		require.Equal(t, "must be after Start", verrs["end"])
	})
}

func TestMerge(t *testing.T) {
	now := time.Now()
	ok := input{ID: idx.New().String(), Start: now, End: now.Add(time.Hour)}

	require.NoError(t, validx.Merge(ok, validx.ValidationErrors{}))

	err := validx.Merge(ok, validx.ValidationErrors{"unGoals": "unknown goal"})
	var verrs validx.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, []string{"unGoals: unknown goal"}, verrs.Details())

	bad := ok
	bad.ID = ""
	err = validx.Merge(bad, validx.ValidationErrors{"unGoals": "unknown goal"})
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	require.Equal(t, "is required", verrs["id"])
}
