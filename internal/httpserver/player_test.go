package httpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlayer(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"", anonymousPlayer, true},
		{"   ", anonymousPlayer, true},
		{" ada_99 ", "ada_99", true},
		{"ab", "", false},
		{"this_name_is_far_too_long_x", "", false},
		{"bad name", "", false},
		{"émile", "", false},
	}
	for _, tc := range cases {
		got, err := normalizePlayer(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, errBadPlayer, tc.in)
		}
	}
}
