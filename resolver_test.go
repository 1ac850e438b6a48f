package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRFQIDFromURL(t *testing.T) {
	cases := []struct {
		url    string
		wantID int64
		wantOK bool
	}{
		{"https://h5api.m.alibaba.com/h5/mtop.rfq.detail/1.0/?rfqId=99321&appKey=x", 99321, true},
		{"https://sourcing.alibaba.com/quote?foo=1&rfqId=7", 7, true},
		{"https://sourcing.alibaba.com/quote?rfqId=0", 0, true},
		{"https://sourcing.alibaba.com/rfq/detail.htm", 0, false},
		{"https://sourcing.alibaba.com/quote?rfqid=99321", 0, false},
		{"https://sourcing.alibaba.com/quote?rfqId=", 0, false},
		{"https://sourcing.alibaba.com/quote?rfqId=abc", 0, false},
		{"https://sourcing.alibaba.com/quote?rfqId=12.5", 0, false},
		{"http://[::1]:namedport/?rfqId=1", 0, false},
	}

	for _, tc := range cases {
		id, ok := rfqIDFromURL(tc.url)
		assert.Equal(t, tc.wantOK, ok, "url %q", tc.url)
		if tc.wantOK {
			assert.Equal(t, tc.wantID, id, "url %q", tc.url)
		}
	}
}

func TestNavigationError(t *testing.T) {
	assert.NoError(t, navigationError("", nil))

	err := navigationError("net::ERR_NAME_NOT_RESOLVED", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "net::ERR_NAME_NOT_RESOLVED")

	transport := errors.New("websocket closed")
	assert.Equal(t, transport, navigationError("", transport))
	assert.Equal(t, transport, navigationError("net::ERR_ABORTED", transport))
}
