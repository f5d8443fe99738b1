package model

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	base := errors.New("status 502")
	err := eris.Wrap(NewUpstreamError("apify", base), "fetch profile")

	assert.True(t, IsUpstream(err))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "apify: status 502")
	assert.NoError(t, NewUpstreamError("apify", nil))
}

func TestBatchFatalError(t *testing.T) {
	t.Parallel()

	err := &BatchFatalError{Err: errors.New("no reactions")}
	assert.True(t, IsBatchFatal(err))
	assert.False(t, IsBatchFatal(errors.New("other")))
	assert.Equal(t, "no reactions", err.Error())
}
