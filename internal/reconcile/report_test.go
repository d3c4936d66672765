package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQualityLogWithCorrections(t *testing.T) {
	original := FieldMap{"shipper_name": "Acme", "weight": nil}
	current := FieldMap{"shipper_name": "Acme", "weight": "10kg"}

	q, err := BuildQualityLog(original, current)
	require.NoError(t, err)

	assert.False(t, q.Success)
	require.Equal(t, 1, q.CorrectionsMade.Len())
	require.NotNil(t, q.FailureReason)
	assert.Equal(t, "Manual corrections made to 1 field(s): weight", *q.FailureReason)
}

func TestBuildQualityLogClean(t *testing.T) {
	fields := FieldMap{"shipper_name": "Acme", "weight": "10kg"}

	q, err := BuildQualityLog(fields, FieldMap{"shipper_name": "Acme", "weight": "10kg"})
	require.NoError(t, err)

	assert.True(t, q.Success)
	assert.True(t, q.CorrectionsMade.IsEmpty())
	assert.Nil(t, q.FailureReason)
}

func TestBuildQualityLogReasonNamesAllFields(t *testing.T) {
	q, err := BuildQualityLog(
		FieldMap{"shipper_name": "Acme", "weight": "5kg"},
		FieldMap{"shipper_name": "Acme Corp", "weight": "6kg"},
	)
	require.NoError(t, err)
	require.NotNil(t, q.FailureReason)
	assert.Equal(t, "Manual corrections made to 2 field(s): shipper_name, weight", *q.FailureReason)
}

func TestBuildQualityLogSuccessMatchesReconcile(t *testing.T) {
	cases := []struct {
		original, current FieldMap
	}{
		{FieldMap{"carrier": "DHL"}, FieldMap{"carrier": "DHL"}},
		{FieldMap{"carrier": "DHL"}, FieldMap{"carrier": "UPS"}},
		{FieldMap{"carrier": nil}, FieldMap{"carrier": "  "}},
	}
	for _, tc := range cases {
		set, err := Reconcile(tc.original, tc.current)
		require.NoError(t, err)
		q, err := BuildQualityLog(tc.original, tc.current)
		require.NoError(t, err)
		assert.Equal(t, set.IsEmpty(), q.Success)
	}
}

func TestBuildQualityLogOverrides(t *testing.T) {
	clean := FieldMap{"carrier": "DHL"}

	q, err := BuildQualityLog(clean, clean, WithSuccess(false), WithFailureReason("low extraction confidence"))
	require.NoError(t, err)
	assert.False(t, q.Success)
	require.NotNil(t, q.FailureReason)
	assert.Equal(t, "low extraction confidence", *q.FailureReason)

	// Forcing success clears any reason.
	q, err = BuildQualityLog(
		FieldMap{"carrier": "DHL"},
		FieldMap{"carrier": "UPS"},
		WithSuccess(true),
	)
	require.NoError(t, err)
	assert.True(t, q.Success)
	assert.Nil(t, q.FailureReason)
	assert.Equal(t, 1, q.CorrectionsMade.Len())
}

func TestBuildQualityLogPropagatesValidation(t *testing.T) {
	_, err := BuildQualityLog(FieldMap{"weight": []int{1}}, FieldMap{})
	assert.Error(t, err)
}

func TestQualityLogJSONShape(t *testing.T) {
	q, err := BuildQualityLog(
		FieldMap{"shipper_name": "Acme", "weight": nil},
		FieldMap{"shipper_name": "Acme", "weight": "10kg"},
	)
	require.NoError(t, err)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"corrections_made": {"weight": {"original": null, "corrected": "10kg"}},
		"failure_reason": "Manual corrections made to 1 field(s): weight"
	}`, string(data))
}
