package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFlag(t *testing.T) {
	var flag periodFlag

	require.NoError(t, flag.Set("weekly"))
	assert.Equal(t, "weekly", flag.String())

	err := flag.Set("hourly")
	assert.ErrorContains(t, err, "invalid period: hourly")
}
