package list_appointments

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{
		"from":            {"2025-06-01"},
		"to":              {"2025-06-30"},
		"status":          {"pending"},
		"includeInactive": {"true"},
	})
	require.NoError(t, err)

	require.NotNil(t, req.StartDate)
	require.NotNil(t, req.EndDate)
	assert.Equal(t, 1, req.StartDate.Day())
	assert.Equal(t, 30, req.EndDate.Day())
	assert.Equal(t, "pending", *req.Status)
	assert.True(t, req.IncludeInactive)
}

func TestToServiceRequest_Empty(t *testing.T) {
	req, err := ToServiceRequest(url.Values{})
	require.NoError(t, err)

	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeInactive)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{"from": {"01.06.2025"}},
		{"to": {"tomorrow"}},
		{"includeInactive": {"maybe"}},
	} {
		_, err := ToServiceRequest(q)
		assert.Error(t, err, "%v", q)
	}
}
